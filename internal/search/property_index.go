package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"hearthub/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

const defaultIndex = "properties"

// PropertyIndex is the full-text listing index. Only available properties are searchable.
type PropertyIndex interface {
	EnsureIndex() error
	Upsert(property *models.Property) error
	Remove(propertyID int64) error
	Search(filter *models.PropertySearchFilter) ([]*models.Property, error)
	Healthy() bool
}

type meiliPropertyIndex struct {
	client *meilisearch.Client
	index  string
}

func NewPropertyIndex(host, apiKey string) PropertyIndex {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &meiliPropertyIndex{client: client, index: defaultIndex}
}

// EnsureIndex creates the index and its attribute settings.
func (s *meiliPropertyIndex) EnsureIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && !strings.Contains(err.Error(), "index_already_exists") {
		return err
	}

	if _, err := s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"address",
		"city",
		"description",
	}); err != nil {
		return err
	}

	if _, err := s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"availability",
		"city",
		"monthly_rent",
		"bedrooms",
	}); err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"monthly_rent",
		"created_at",
	})
	return err
}

func (s *meiliPropertyIndex) Upsert(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]*models.Property{property}, "id")
	return err
}

func (s *meiliPropertyIndex) Remove(propertyID int64) error {
	_, err := s.client.Index(s.index).DeleteDocument(strconv.FormatInt(propertyID, 10))
	return err
}

func (s *meiliPropertyIndex) Search(filter *models.PropertySearchFilter) ([]*models.Property, error) {
	req := &meilisearch.SearchRequest{
		Limit:  int64(filter.Limit),
		Offset: int64(filter.Offset),
		Filter: BuildFilter(filter),
		Sort:   []string{"monthly_rent:asc"},
	}

	res, err := s.client.Index(s.index).Search(filter.Query, req)
	if err != nil {
		return nil, err
	}

	properties := make([]*models.Property, 0, len(res.Hits))
	for _, hit := range res.Hits {
		p, err := decodeHit(hit)
		if err != nil {
			return nil, fmt.Errorf("decode search hit: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, nil
}

func (s *meiliPropertyIndex) Healthy() bool {
	return s.client.IsHealthy()
}

// BuildFilter renders the structured part of a search as a Meilisearch filter expression.
func BuildFilter(filter *models.PropertySearchFilter) string {
	filters := []string{fmt.Sprintf("availability = %q", models.AvailabilityAvailable)}

	if city := strings.TrimSpace(filter.City); city != "" {
		filters = append(filters, fmt.Sprintf("city = %q", city))
	}
	if filter.MinRent != nil {
		filters = append(filters, "monthly_rent >= "+strconv.FormatFloat(*filter.MinRent, 'f', -1, 64))
	}
	if filter.MaxRent != nil {
		filters = append(filters, "monthly_rent <= "+strconv.FormatFloat(*filter.MaxRent, 'f', -1, 64))
	}
	if filter.Bedrooms != nil {
		filters = append(filters, "bedrooms >= "+strconv.Itoa(*filter.Bedrooms))
	}

	return strings.Join(filters, " AND ")
}

func decodeHit(hit interface{}) (*models.Property, error) {
	raw, err := json.Marshal(hit)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	p.Availability = models.ParseAvailability(p.Status)
	return &p, nil
}
