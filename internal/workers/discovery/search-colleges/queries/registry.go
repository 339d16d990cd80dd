package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"collegepath-workers/internal/models"
)

type SearchResult struct {
	Colleges  []models.College
	TotalHits int64
	MaxScore  float64
	Took      int64
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, cs CollegeSearch) (*SearchResult, error) {
	req, err := BuildSearch(cs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				Source models.College `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	maxScore := 0.0
	if r.Hits.MaxScore != nil {
		maxScore = *r.Hits.MaxScore
	}

	colleges := make([]models.College, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		colleges = append(colleges, hit.Source)
	}

	return &SearchResult{
		Colleges:  colleges,
		TotalHits: r.Hits.Total.Value,
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
