package search

import (
	"listing-hub/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "property_number",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"property_number",
		"property_name",
		"address",
		"owner_name",
		"special_notes",
		"manager_memo",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"property_number",
		"status",
		"property_type",
		"trade_type",
		"dong",
		"shared",
		"has_photo",
		"is_deleted",
		"register_date",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"register_date",
		"created_at",
		"updated_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexListing indexes a single listing
func (s *SearchClient) IndexListing(listing *models.Listing) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Listing{*listing})
	return err
}

// IndexListings indexes multiple listings
func (s *SearchClient) IndexListings(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(listings)
	return err
}

// RemoveListing deletes a listing from the index. Soft-deleted listings are
// removed so search mirrors the non-deleted view the application serves.
func (s *SearchClient) RemoveListing(propertyNumber string) error {
	_, err := s.client.Index(s.index).DeleteDocument(propertyNumber)
	return err
}

// SearchRequest represents advanced search parameters
type SearchRequest struct {
	Query        string
	Limit        int64
	Offset       int64
	Filter       []string
	Sort         []string
	FacetsFilter []string
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []models.Listing
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches for listings with basic options, excluding deleted rows
func (s *SearchClient) Search(query string, limit int64) ([]models.Listing, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query:  query,
		Limit:  limit,
		Filter: []string{"is_deleted = false"},
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs advanced search with facets and filters
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	// Add filters
	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}

	// Add sorting
	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}

	// Add facets
	if len(req.FacetsFilter) > 0 {
		searchReq.Facets = req.FacetsFilter
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		listings = append(listings, parseListingFromHit(hit))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	return &SearchResult{
		Hits:           listings,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}, nil
}

// parseListingFromHit converts a search hit to a Listing
func parseListingFromHit(hit interface{}) models.Listing {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Listing{}
	}

	listing := models.Listing{
		PropertyNumber:   getString(hitMap, "property_number"),
		PropertyName:     getString(hitMap, "property_name"),
		PropertyType:     getString(hitMap, "property_type"),
		TradeType:        getString(hitMap, "trade_type"),
		Status:           models.ListingStatus(getString(hitMap, "status")),
		Address:          getString(hitMap, "address"),
		Dong:             getString(hitMap, "dong"),
		Ho:               getString(hitMap, "ho"),
		Price:            getString(hitMap, "price"),
		SupplyAreaSqm:    getString(hitMap, "supply_area_sqm"),
		SupplyAreaPyeong: getString(hitMap, "supply_area_pyeong"),
		RegisterDate:     getString(hitMap, "register_date"),
		OwnerName:        getString(hitMap, "owner_name"),
		SpecialNotes:     getString(hitMap, "special_notes"),
		ManagerMemo:      getString(hitMap, "manager_memo"),
	}

	if shared, ok := hitMap["shared"].(bool); ok {
		listing.Shared = shared
	}
	if hasPhoto, ok := hitMap["has_photo"].(bool); ok {
		listing.HasPhoto = hasPhoto
	}
	if isDeleted, ok := hitMap["is_deleted"].(bool); ok {
		listing.IsDeleted = isDeleted
	}
	if current, ok := hitMap["floor_current"].(float64); ok {
		currentInt := int(current)
		listing.FloorCurrent = &currentInt
	}
	if total, ok := hitMap["floor_total"].(float64); ok {
		totalInt := int(total)
		listing.FloorTotal = &totalInt
	}

	return listing
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Filter: "is_deleted = false",
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
