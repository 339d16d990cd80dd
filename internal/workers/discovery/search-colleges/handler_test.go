package searchcolleges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegepath-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// newStubCluster serves canned search responses so query execution can be
// tested without a live cluster. The product header keeps the v8 client's
// server validation happy.
func newStubCluster(t *testing.T, handle http.HandlerFunc) *elasticsearch.Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handle(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{server.URL},
	})
	require.NoError(t, err)
	return client
}

func newTestHandler(t *testing.T, client *elasticsearch.Client) *Handler {
	config := LoadConfig()
	config.Timeout = 5 * time.Second
	return NewHandler(config, client, newTestLogger(t))
}

const twoCollegeResponse = `{
	"took": 3,
	"hits": {
		"total": {"value": 2},
		"max_score": 1.5,
		"hits": [
			{"_source": {"id": "c1", "name": "State University", "city": "Capital City", "state": "CA", "ownership": 1, "studentSize": 38000}},
			{"_source": {"id": "c2", "name": "Coastal College", "city": "Bayview", "state": "CA", "ownership": 2, "studentSize": 4100}}
		]
	}
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SearchesCatalog(t *testing.T) {
	var gotPath, gotFrom, gotSize string
	var gotBody map[string]interface{}

	client := newStubCluster(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFrom = r.URL.Query().Get("from")
		gotSize = r.URL.Query().Get("size")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoCollegeResponse))
	})

	handler := newTestHandler(t, client)

	output, err := handler.Execute(context.Background(), &Input{
		State:     "ca",
		Ownership: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "/colleges/_search", gotPath)
	assert.Equal(t, "0", gotFrom)
	assert.Equal(t, "20", gotSize)

	// state filter is uppercased before it reaches the cluster
	filters := gotBody["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	stateTerm := filters[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "CA", stateTerm["state"])

	assert.Equal(t, int64(2), output.Total)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "State University", output.Results[0].Name)
	assert.Equal(t, "Coastal College", output.Results[1].Name)
	require.NotNil(t, output.Results[0].StudentSize)
	assert.Equal(t, 38000, *output.Results[0].StudentSize)
	assert.Equal(t, 0, output.Page)
	assert.Equal(t, 20, output.PerPage)
}

func TestHandler_Execute_ClampsPagination(t *testing.T) {
	var gotFrom, gotSize string

	client := newStubCluster(t, func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from")
		gotSize = r.URL.Query().Get("size")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"took": 1, "hits": {"total": {"value": 0}, "hits": []}}`))
	})

	handler := newTestHandler(t, client)

	output, err := handler.Execute(context.Background(), &Input{
		Page:    2,
		PerPage: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, "100", gotFrom)
	assert.Equal(t, "50", gotSize)
	assert.Equal(t, 2, output.Page)
	assert.Equal(t, 50, output.PerPage)
	assert.Empty(t, output.Results)
}

func TestHandler_Execute_IndexNotFound(t *testing.T) {
	client := newStubCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "index_not_found_exception"}}`))
	})

	handler := newTestHandler(t, client)

	_, err := handler.Execute(context.Background(), &Input{Query: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INDEX_NOT_FOUND")
}

func TestHandler_Execute_UnknownQueryType(t *testing.T) {
	client := newStubCluster(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("cluster should not be called for an unknown query type")
	})

	handler := newTestHandler(t, client)

	_, err := handler.Execute(context.Background(), &Input{QueryType: "franchise_index"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_QUERY_FAILED")
}

func TestHandler_Execute_SimilarColleges(t *testing.T) {
	var gotBody map[string]interface{}

	client := newStubCluster(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoCollegeResponse))
	})

	handler := newTestHandler(t, client)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "similar_colleges",
		CollegeID: "c9",
	})
	require.NoError(t, err)

	mlt := gotBody["query"].(map[string]interface{})["more_like_this"].(map[string]interface{})
	like := mlt["like"].([]interface{})
	assert.Equal(t, "c9", like[0].(map[string]interface{})["_id"])

	assert.Equal(t, int64(2), output.Total)
}
