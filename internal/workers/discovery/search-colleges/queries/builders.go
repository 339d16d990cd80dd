package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
	ErrIndexNotFound    = errors.New("index not found")
)

// CollegeSearch describes one catalog query. State and Ownership are
// applied only when they pass the same validity checks the public search
// API uses: two-letter state, Scorecard ownership codes 1-3.
type CollegeSearch struct {
	Index     string
	QueryType string
	Query     string
	State     string
	Ownership int
	MinSize   int
	CollegeID string
	From      int
	Size      int
}

func BuildSearch(cs CollegeSearch) (*esapi.SearchRequest, error) {
	if cs.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch cs.QueryType {
	case "college_catalog":
		queryBody = buildCatalogQuery(cs)
	case "similar_colleges":
		queryBody = buildSimilarCollegesQuery(cs)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, cs.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{cs.Index},
		Body:  strings.NewReader(string(body)),
		From:  &cs.From,
		Size:  &cs.Size,
	}

	return &req, nil
}

func buildCatalogQuery(cs CollegeSearch) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if cs.Query != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  cs.Query,
				"fields": []string{"name^3", "city", "state"},
				"type":   "best_fields",
			},
		})
	}

	if len(cs.State) == 2 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"state": cs.State},
		})
	}

	if cs.Ownership >= 1 && cs.Ownership <= 3 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"ownership": cs.Ownership},
		})
	}

	if cs.MinSize > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"studentSize": map[string]interface{}{"gte": cs.MinSize},
			},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Browsing without a keyword lists biggest schools first; keyword
	// searches keep relevance order.
	if cs.Query == "" {
		query["sort"] = []map[string]interface{}{{"studentSize": "desc"}}
	}

	return query
}

func buildSimilarCollegesQuery(cs CollegeSearch) map[string]interface{} {
	if cs.CollegeID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "city", "state"},
				"like": []map[string]interface{}{
					{"_index": cs.Index, "_id": cs.CollegeID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}
