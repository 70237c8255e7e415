//
// Package srafetch implements a small harvester for run metadata from the
// NCBI Sequence Read Archive (SRA). Given a bioproject identifier it pages
// through the entrez eutils search history, converts the embedded
// experiment XML into generic values and flattens them into CSV rows.
//
// It comes with a command line tool, called `srafetch`.
//
// Basic usage:
//
//     $ srafetch PRJNA257197 > metadata.csv
//
package srafetch
