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
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrNoProject = errors.New("a project ID is required")

// Harvester drives the search, pagination, assembly and flattening steps
// for one project. Pages are requested strictly one after another and
// each page is processed to completion before the next request goes out.
// Any error aborts the whole run.
type Harvester struct {
	Client Client
	// Cache holds raw summary payloads, nil disables caching.
	Cache *DirCache
	// MaxSamples bounds pagination, the server-reported total does not.
	MaxSamples int
	BaseURL    string
}

// NewHarvester returns a harvester with a resilient HTTP client and the
// default sample bound, without a cache.
func NewHarvester() Harvester {
	return Harvester{Client: NewClient(), MaxSamples: DefaultMaxSamples}
}

// Run harvests one project and writes the header plus one CSV row per
// (experiment, run) pair. Row order follows page order, then result order
// within a page, then run order within a record.
func (h Harvester) Run(project string, w io.Writer) error {
	if project == "" {
		return ErrNoProject
	}
	session, err := h.search(project)
	if err != nil {
		return err
	}
	if err := writeRow(w, Header()); err != nil {
		return err
	}
	for _, offset := range Offsets(h.MaxSamples, session.RetMax) {
		page, err := h.fetchPage(project, session, offset)
		if err != nil {
			return err
		}
		records, err := Assemble(page)
		if err != nil {
			return err
		}
		for _, record := range records {
			rows, err := Rows(record)
			if err != nil {
				return err
			}
			for _, row := range rows {
				if err := writeRow(w, row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// search issues the initial history-backed search call.
func (h Harvester) search(project string) (SearchSession, error) {
	body, err := h.Client.Do(Request{BaseURL: h.BaseURL, Op: "search", Term: project})
	if err != nil {
		return SearchSession{}, err
	}
	return ParseSearch(body)
}

// fetchPage returns one validated summary page, served from the cache
// when a fresh entry exists. Only payloads that decode are cached.
func (h Harvester) fetchPage(project string, session SearchSession, offset int) (Page, error) {
	key := cacheKey(project, offset, session.RetMax)
	if h.Cache != nil && h.Cache.Fresh(key) {
		if body, err := h.Cache.Get(key); err == nil {
			return ParseSummary(body)
		}
	}
	body, err := h.Client.Do(Request{
		BaseURL:  h.BaseURL,
		Op:       "summary",
		QueryKey: session.QueryKey,
		WebEnv:   session.WebEnv,
		RetStart: offset,
		RetMax:   session.RetMax,
	})
	if err != nil {
		return Page{}, err
	}
	page, err := ParseSummary(body)
	if err != nil {
		return Page{}, err
	}
	if h.Cache != nil {
		if err := h.Cache.Set(key, body); err != nil {
			return Page{}, err
		}
	}
	return page, nil
}

// cacheKey shards summary payloads by project and page window.
func cacheKey(project string, offset, retmax int) string {
	return path.Join(sanitize(project), "summary", fmt.Sprintf("%d-%d.json", offset, retmax))
}

// sanitize keeps cache keys path-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return '_'
	}, s)
}
