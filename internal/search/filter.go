package search

import (
	"fmt"
	"strings"

	"listing-hub/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type FilterParams struct {
	Query        string
	Status       string
	PropertyType string
	TradeTypes   []string
	Dong         string
	SharedOnly   bool
	SortBy       string
	Limit        int64
}

// FilterSearch performs advanced search with filters
func (s *SearchClient) FilterSearch(params FilterParams) ([]models.Listing, error) {
	filters := []string{"is_deleted = false"}

	if params.Status != "" {
		filters = append(filters, fmt.Sprintf("status = '%s'", params.Status))
	}

	if params.PropertyType != "" {
		filters = append(filters, fmt.Sprintf("property_type = '%s'", params.PropertyType))
	}

	// Trade type filter
	if len(params.TradeTypes) > 0 {
		tradeFilters := make([]string, len(params.TradeTypes))
		for i, tradeType := range params.TradeTypes {
			tradeFilters[i] = fmt.Sprintf("trade_type = '%s'", tradeType)
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(tradeFilters, " OR ")))
	}

	if params.Dong != "" {
		filters = append(filters, fmt.Sprintf("dong = '%s'", params.Dong))
	}

	if params.SharedOnly {
		filters = append(filters, "shared = true")
	}

	// Determine sort order
	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	// Default limit
	if params.Limit == 0 {
		params.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  params.Limit,
		Filter: strings.Join(filters, " AND "),
	}

	if len(sort) > 0 {
		searchReq.Sort = sort
	}

	searchRes, err := s.client.Index(s.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		listings = append(listings, parseListingFromHit(hit))
	}

	return listings, nil
}
