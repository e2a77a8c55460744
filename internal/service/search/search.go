package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/hvaldez/character-api/internal/models"
)

// Search runs a fuzzy multi_match over name and lastName.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Character, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "lastName"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Character `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	chars := make([]models.Character, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		chars[i] = hit.Source
	}
	return r.Hits.Total.Value, chars, nil
}

// Index upserts a character document keyed by its id.
func Index(ctx context.Context, es *elasticsearch.Client, index string, ch models.Character) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode character: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatInt(ch.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index character: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index character: %s", res.Status())
	}
	return nil
}

// Delete removes a character document; a missing document is fine.
func Delete(ctx context.Context, es *elasticsearch.Client, index string, id int64) error {
	res, err := es.Delete(
		index,
		strconv.FormatInt(id, 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete character: %s", res.Status())
	}
	return nil
}
