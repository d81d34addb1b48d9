package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/shofy/internal/models"
)

var ErrDisabled = errors.New("search is not configured")

type Index interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, size int) (int64, []models.Product, error)
}

type Config struct {
	URL       string
	Username  string
	Password  string
	Index     string
	Transport http.RoundTripper
}

type ESIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewESIndex(ctx context.Context, cfg Config) (*ESIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}

	return &ESIndex{ES: client, Index: cfg.Index}, nil
}

func (s *ESIndex) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("elasticsearch: encode product: %w", err)
	}

	res, err := s.ES.Index(
		s.Index,
		&buf,
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(docID(p.ID)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (s *ESIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := s.ES.Delete(s.Index, docID(id), s.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch: delete product %d: %s", id, res.Status())
	}
	return nil
}

func (s *ESIndex) Search(ctx context.Context, query string, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("elasticsearch: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: decode response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Disabled is used when no Elasticsearch URL is configured: writes are
// ignored and queries fail with ErrDisabled.
type Disabled struct{}

func (Disabled) IndexProduct(context.Context, models.Product) error { return nil }
func (Disabled) DeleteProduct(context.Context, uint) error          { return nil }
func (Disabled) Search(context.Context, string, int) (int64, []models.Product, error) {
	return 0, nil, ErrDisabled
}
