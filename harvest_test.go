package srafetch

import (
	"bytes"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

// routeDoer serves a search body and per-retstart summary bodies.
func routeDoer(search string, pages map[string]string) *fakeDoer {
	return &fakeDoer{handler: func(u *url.URL) *http.Response {
		if strings.Contains(u.Path, "esearch") {
			return textResponse(200, search)
		}
		body, ok := pages[u.Query().Get("retstart")]
		if !ok {
			return textResponse(404, "no such page")
		}
		return textResponse(200, body)
	}}
}

func TestHarvestPagination(t *testing.T) {
	empty := `{"result":{"uids":[]}}`
	doer := routeDoer(testSearchBody, map[string]string{"0": empty, "500": empty, "1000": empty})

	h := Harvester{Client: NewClientDoer(doer), MaxSamples: 1200}
	var buf bytes.Buffer
	if err := h.Run("PRJNA100", &buf); err != nil {
		t.Fatal(err)
	}
	if got := retstarts(t, doer.urls); !reflect.DeepEqual(got, []string{"0", "500", "1000"}) {
		t.Errorf("retstarts got %v, want [0 500 1000]", got)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("got %d lines, want the header only", len(lines))
	}
}

func TestHarvestRows(t *testing.T) {
	body := summaryBody(t, []string{"101", "102"}, map[string]Doc{
		"101": {Expxml: testExpxml, Runs: testRuns},
		"102": {Expxml: testExpxmlNanopore, Runs: testRunsSingle},
	})
	doer := routeDoer(testSearchBody, map[string]string{"0": body})

	h := Harvester{Client: NewClientDoer(doer), MaxSamples: 0}
	var buf bytes.Buffer
	if err := h.Run("PRJNA100", &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows: %q", len(lines), buf.String())
	}
	if lines[0] != strings.Join(Header(), ",") {
		t.Errorf("header got %q", lines[0])
	}
	want := "SRR1,PRJNA100,SRX100,exp one,Escherichia coli,Illumina HiSeq 2500,UW,SRP100,study one,SRS100,sample one,9000,2,200,20000,lib1,WGS,GENOMIC,RANDOM"
	if lines[1] != want {
		t.Errorf("row got %q, want %q", lines[1], want)
	}
	if !strings.HasPrefix(lines[2], "SRR2,") {
		t.Errorf("second row got %q, want a SRR2 row", lines[2])
	}
	if lines[1][len("SRR1"):] != lines[2][len("SRR2"):] {
		t.Error("sibling rows differ beyond the run accession")
	}
}

func TestHarvestAbortsOnErrorMarker(t *testing.T) {
	good := summaryBody(t, []string{"101"}, map[string]Doc{
		"101": {Expxml: testExpxml, Runs: testRunsSingle},
	})
	doer := routeDoer(testSearchBody, map[string]string{
		"0":    good,
		"500":  `{"error": "boom"}`,
		"1000": good,
	})

	h := Harvester{Client: NewClientDoer(doer), MaxSamples: 1200}
	var buf bytes.Buffer
	err := h.Run("PRJNA100", &buf)
	if !IsKind(err, KindPayload) {
		t.Fatalf("got %v, want a payload error", err)
	}
	// the first page made it out, nothing after the failure did
	if got := retstarts(t, doer.urls); !reflect.DeepEqual(got, []string{"0", "500"}) {
		t.Errorf("retstarts got %v, want [0 500]", got)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines, want header plus the first page row", len(lines))
	}
}

func TestHarvestSearchFailures(t *testing.T) {
	var tests = []struct {
		resp *http.Response
		kind Kind
	}{
		{textResponse(500, "backend down"), KindTransport},
		{textResponse(200, `{"esearchresult":{"count":"0"}}`), KindPayload},
	}
	for _, test := range tests {
		resp := test.resp
		doer := &fakeDoer{handler: func(u *url.URL) *http.Response { return resp }}
		h := Harvester{Client: NewClientDoer(doer), MaxSamples: 1200}
		var buf bytes.Buffer
		err := h.Run("PRJNA100", &buf)
		if !IsKind(err, test.kind) {
			t.Errorf("got %v, want kind %v", err, test.kind)
		}
		if len(doer.urls) != 1 {
			t.Errorf("got %d requests, want the search call only", len(doer.urls))
		}
		if buf.Len() != 0 {
			t.Errorf("wrote %q before the fatal search error", buf.String())
		}
	}
}

func TestHarvestUsesCache(t *testing.T) {
	body := summaryBody(t, []string{"101"}, map[string]Doc{
		"101": {Expxml: testExpxml, Runs: testRuns},
	})
	cache, err := NewDirCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := routeDoer(testSearchBody, map[string]string{"0": body})
	h := Harvester{Client: NewClientDoer(first), Cache: &cache, MaxSamples: 0}
	var one bytes.Buffer
	if err := h.Run("PRJNA100", &one); err != nil {
		t.Fatal(err)
	}

	// second run: the summary page must come from the cache
	second := routeDoer(testSearchBody, map[string]string{})
	h.Client = NewClientDoer(second)
	var two bytes.Buffer
	if err := h.Run("PRJNA100", &two); err != nil {
		t.Fatal(err)
	}
	if got := retstarts(t, second.urls); got != nil {
		t.Errorf("second run hit the network for pages: %v", got)
	}
	if one.String() != two.String() {
		t.Error("cached run output differs from the first run")
	}
}
