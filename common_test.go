package srafetch

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

const testExpxml = `<Summary><Title>WGS of E. coli</Title><Platform instrument_model="Illumina HiSeq 2500">ILLUMINA</Platform><Statistics total_runs="2" total_spots="200" total_bases="20000" total_size="9000"/></Summary><Submitter acc="SRA111" center_name="UW" contact_name="Jo" lab_name="lab"/><Experiment acc="SRX100" ver="1" status="public" name="exp one"/><Study acc="SRP100" name="study one"/><Organism taxid="562" ScientificName="Escherichia coli"/><Sample acc="SRS100" name="sample one"/><Instrument ILLUMINA="Illumina HiSeq 2500"/><Library_descriptor><LIBRARY_NAME>lib1</LIBRARY_NAME><LIBRARY_STRATEGY>WGS</LIBRARY_STRATEGY><LIBRARY_SOURCE>GENOMIC</LIBRARY_SOURCE><LIBRARY_SELECTION>RANDOM</LIBRARY_SELECTION></Library_descriptor><Bioproject>PRJNA100</Bioproject>`

const testExpxmlNanopore = `<Summary><Title>Long reads</Title><Platform instrument_model="MinION">OXFORD_NANOPORE</Platform><Statistics total_runs="1" total_spots="10" total_bases="1000" total_size="900"/></Summary><Submitter acc="SRA222" center_name="UW" contact_name="Jo" lab_name="lab"/><Experiment acc="SRX200" ver="1" status="public" name="exp two"/><Study acc="SRP100" name="study one"/><Organism taxid="562" ScientificName="Escherichia coli"/><Sample acc="SRS200" name="sample two"/><Instrument OXFORD_NANOPORE="MinION"/><Library_descriptor><LIBRARY_NAME>lib2</LIBRARY_NAME><LIBRARY_STRATEGY>WGS</LIBRARY_STRATEGY><LIBRARY_SOURCE>GENOMIC</LIBRARY_SOURCE><LIBRARY_SELECTION>RANDOM</LIBRARY_SELECTION></Library_descriptor><Bioproject>PRJNA100</Bioproject>`

const testRuns = `<Run acc="SRR1" total_spots="100" total_bases="10000" load_done="true" is_public="true" cluster_name="public" static_data_available="1"/> <Run acc="SRR2" total_spots="100" total_bases="10000" load_done="true" is_public="true" cluster_name="public" static_data_available="1"/>`

const testRunsSingle = `<Run acc="SRR9" total_spots="10" total_bases="1000" load_done="true" is_public="true" cluster_name="public" static_data_available="1"/>`

const testSearchBody = `{"esearchresult":{"count":"1200","retmax":"20","retstart":"0","querykey":"1","webenv":"NCID_1_TEST"}}`

// summaryBody builds an esummary response envelope for tests.
func summaryBody(t *testing.T, uids []string, docs map[string]Doc) string {
	t.Helper()
	result := map[string]interface{}{"uids": uids}
	for uid, doc := range docs {
		result[uid] = doc
	}
	b, err := json.Marshal(map[string]interface{}{"result": result})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// fakeDoer serves canned responses and records every requested URL.
type fakeDoer struct {
	urls    []string
	handler func(u *url.URL) *http.Response
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	d.urls = append(d.urls, req.URL.String())
	return d.handler(req.URL), nil
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: ioutil.NopCloser(strings.NewReader(body))}
}

// retstarts extracts the retstart parameter of every summary request.
func retstarts(t *testing.T, urls []string) []string {
	t.Helper()
	var values []string
	for _, link := range urls {
		u, err := url.Parse(link)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(u.Path, "esummary") {
			continue
		}
		values = append(values, u.Query().Get("retstart"))
	}
	return values
}
