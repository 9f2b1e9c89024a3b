package resolve

import (
	"context"
	"strings"
	"sync"

	"github.com/biotech-analyzer/sponsor-cli/pkg/wikidata"
)

// fakeClient is a scripted wikidata.Client. Queries are dispatched on
// distinctive fragments of the generated SPARQL.
type fakeClient struct {
	mu          sync.Mutex
	queryCalls  int
	searchCalls int

	queryFn  func(sparql string) ([]wikidata.Binding, error)
	searchFn func(term string, limit int) ([]wikidata.SearchResult, error)
}

func (f *fakeClient) Query(_ context.Context, sparql string) ([]wikidata.Binding, error) {
	f.mu.Lock()
	f.queryCalls++
	f.mu.Unlock()
	if f.queryFn == nil {
		return nil, nil
	}
	return f.queryFn(sparql)
}

func (f *fakeClient) SearchEntities(_ context.Context, term string, limit int) ([]wikidata.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(term, limit)
}

func (f *fakeClient) calls() (queries, searches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryCalls, f.searchCalls
}

// Query fragment matchers for dispatching scripted responses.
func isSignalsQuery(sparql string) bool { return strings.Contains(sparql, "?wasSucceeded") }
func isLineageQuery(sparql string) bool { return strings.Contains(sparql, "?currentEntity") }
func isTrialQuery(sparql string) bool   { return strings.Contains(sparql, "P3098") }

func entityURI(qid string) string {
	return "http://www.wikidata.org/entity/" + qid
}

func uriValue(qid string) wikidata.Value {
	return wikidata.Value{Type: "uri", Value: entityURI(qid)}
}

func litValue(s string) wikidata.Value {
	return wikidata.Value{Type: "literal", Value: s}
}

func enValue(s string) wikidata.Value {
	return wikidata.Value{Type: "literal", Value: s, Lang: "en"}
}
