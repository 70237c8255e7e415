//  Copyright 2015 by Leipzig University Library, http://ub.uni-leipzig.de
//                    The Finc Authors, http://finc.info
//                    Martin Czygan, <martin.czygan@uni-leipzig.de>
//
// This file is part of some open source application.
//
// Some open source application is free software: you can redistribute
// it and/or modify it under the terms of the GNU General Public
// License as published by the Free Software Foundation, either
// version 3 of the License, or (at your option) any later version.
//
// Some open source application is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty
// of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Foobar.  If not, see <http://www.gnu.org/licenses/>.
//
// @license GPL-3.0+ <http://spdx.org/licenses/GPL-3.0+>
//
package srafetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/sethgrid/pester"
)

// Version
const Version = "0.1.0"

const (
	// DefaultBaseURL is the entrez eutils endpoint.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	// DefaultRetMax is the fixed page size.
	DefaultRetMax = 500
	// DefaultMaxSamples bounds the number of requested results.
	DefaultMaxSamples = 5000
)

var (
	ErrNoOp     = errors.New("request: an operation is required")
	ErrBadOp    = errors.New("bad operation")
	ErrNoTerm   = errors.New("no search term")
	ErrNoWebEnv = errors.New("no webenv")

	// Verbose logs requests and offending payloads.
	Verbose = false
	// UserAgent to use for requests
	UserAgent = fmt.Sprintf("srafetch/%s (https://github.com/dfornika/sra-fetch-metadata)", Version)

	// OpPathMap lists the supported eutils operations.
	OpPathMap = map[string]string{
		"search":  "esearch.fcgi",
		"summary": "esummary.fcgi",
	}

	// errMarker flags API-level errors embedded in an otherwise
	// successful response body.
	errMarker = regexp.MustCompile(`"error":`)
)

// Request can hold any parameter of a single eutils call.
type Request struct {
	BaseURL  string
	Op       string
	Term     string
	QueryKey string
	WebEnv   string
	RetStart int
	RetMax   int
}

// URL returns the absolute URL for a given request. Catches basic errors
// like a missing term or bad operation.
func (r Request) URL() (s string, err error) {
	if r.Op == "" {
		return s, ErrNoOp
	}
	endpoint, found := OpPathMap[r.Op]
	if !found {
		return s, ErrBadOp
	}
	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	values := url.Values{}
	values.Add("db", "sra")
	values.Add("retmode", "json")

	switch r.Op {
	case "search":
		if r.Term == "" {
			return s, ErrNoTerm
		}
		values.Add("usehistory", "y")
		values.Add("term", r.Term)
	case "summary":
		if r.WebEnv == "" {
			return s, ErrNoWebEnv
		}
		qk := r.QueryKey
		if qk == "" {
			qk = "1"
		}
		retmax := r.RetMax
		if retmax == 0 {
			retmax = DefaultRetMax
		}
		values.Add("query_key", qk)
		values.Add("WebEnv", r.WebEnv)
		values.Add("retstart", strconv.Itoa(r.RetStart))
		values.Add("retmax", strconv.Itoa(retmax))
	}
	return fmt.Sprintf("%s/%s?%s", base, endpoint, values.Encode()), nil
}

// HttpRequestDoer lets us use pester, DefaultClient or other HTTP client
// implementations interchangably.
type HttpRequestDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client turns an eutils request into a raw response body.
type Client struct {
	// doer is a delegate for HTTP requests.
	doer HttpRequestDoer
}

// NewClientDoer creates a client with a user supplied http client, e.g.
// pester.Client, http.DefaultClient.
func NewClientDoer(doer HttpRequestDoer) Client {
	return Client{doer: doer}
}

// NewClient creates a default client with a resilient HTTP client.
func NewClient() Client {
	c := pester.New()
	c.Timeout = 60 * time.Second
	c.MaxRetries = 8
	c.Backoff = pester.ExponentialBackoff
	return Client{doer: c}
}

// Do executes a single request and returns the raw body. A failed
// exchange or a non-200 status is a transport error.
func (c Client) Do(req Request) ([]byte, error) {
	link, err := req.URL()
	if err != nil {
		return nil, err
	}

	if Verbose {
		log.Println(link)
	}

	hreq, err := http.NewRequest("GET", link, nil)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("User-Agent", UserAgent)
	resp, err := c.doer.Do(hreq)
	if err != nil {
		return nil, errorf(KindTransport, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, errorf(KindTransport, "got %d on %s", resp.StatusCode, link)
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errorf(KindTransport, "%v", err)
	}
	return body, nil
}

// SearchSession is the continuation state obtained from one search call:
// an opaque webenv token, the query key to replay it and a server-side
// estimate of the result count. It is created once and never mutated.
type SearchSession struct {
	WebEnv   string
	QueryKey string
	Count    int
	RetMax   int
}

// ParseSearch extracts a session from an esearch response body.
func ParseSearch(body []byte) (SearchSession, error) {
	var session SearchSession
	if errMarker.Match(body) {
		return session, errorf(KindPayload, "search response contains an error marker")
	}
	var envelope struct {
		Result struct {
			Count    string `json:"count"`
			QueryKey string `json:"querykey"`
			WebEnv   string `json:"webenv"`
		} `json:"esearchresult"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		dumpPayload(body)
		return session, errorf(KindPayload, "search: %v", err)
	}
	if envelope.Result.WebEnv == "" {
		dumpPayload(body)
		return session, errorf(KindPayload, "search response yields no webenv")
	}
	session.WebEnv = envelope.Result.WebEnv
	session.QueryKey = envelope.Result.QueryKey
	if session.QueryKey == "" {
		session.QueryKey = "1"
	}
	// count is an estimate only, pagination is bounded by the caller
	session.Count, _ = strconv.Atoi(envelope.Result.Count)
	session.RetMax = DefaultRetMax
	return session, nil
}

// Page is one raw esummary result batch: the uid list plus the per-uid
// documents, kept undecoded until assembly.
type Page struct {
	UIDs   []string
	Result map[string]json.RawMessage
}

// Doc is one esummary entry, carrying the embedded experiment XML and the
// run list XML as raw text fields.
type Doc struct {
	Expxml string `json:"expxml"`
	Runs   string `json:"runs"`
}

// Doc returns the entry recorded for a uid.
func (p Page) Doc(uid string) (Doc, error) {
	var doc Doc
	raw, ok := p.Result[uid]
	if !ok {
		return doc, errorf(KindMissingField, "summary entry missing for uid %s", uid)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, errorf(KindPayload, "summary entry for uid %s: %v", uid, err)
	}
	return doc, nil
}

// ParseSummary decodes an esummary response envelope. An embedded error
// marker or an unexpected shape is fatal for the whole run.
func ParseSummary(body []byte) (Page, error) {
	var page Page
	if errMarker.Match(body) {
		dumpPayload(body)
		return page, errorf(KindPayload, "summary response contains an error marker")
	}
	var envelope struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		dumpPayload(body)
		return page, errorf(KindPayload, "summary: %v", err)
	}
	if envelope.Result == nil {
		dumpPayload(body)
		return page, errorf(KindPayload, "summary response misses result")
	}
	raw, ok := envelope.Result["uids"]
	if !ok {
		dumpPayload(body)
		return page, errorf(KindPayload, "summary response misses uids")
	}
	if err := json.Unmarshal(raw, &page.UIDs); err != nil {
		return page, errorf(KindPayload, "summary uids: %v", err)
	}
	page.Result = envelope.Result
	return page, nil
}

// dumpPayload logs an offending body for diagnosis.
func dumpPayload(body []byte) {
	if Verbose {
		log.Printf("offending payload: %s", body)
	}
}
