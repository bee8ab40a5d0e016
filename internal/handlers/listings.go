package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"listing-hub/internal/database"
	"listing-hub/internal/history"
	"listing-hub/internal/importer"
	"listing-hub/internal/models"
	"listing-hub/internal/notify"
	"listing-hub/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingHandler handles listing CRUD and search requests
type ListingHandler struct {
	db        *database.GormDB
	search    *search.SearchClient
	notify    *notify.Service
	history   *history.Service
	numberGen *importer.NumberGenerator
}

// NewListingHandler creates a new listing handler. search may be nil.
func NewListingHandler(db *database.GormDB, searchClient *search.SearchClient, notifier *notify.Service) *ListingHandler {
	return &ListingHandler{
		db:        db,
		search:    searchClient,
		notify:    notifier,
		history:   history.NewService(db.DB()),
		numberGen: importer.NewNumberGenerator(),
	}
}

// GetListings returns a filtered, paginated page of non-deleted listings
func (h *ListingHandler) GetListings(c *gin.Context) {
	filters := database.ListingFilters{
		Status:       c.Query("status"),
		PropertyType: c.Query("property_type"),
		TradeType:    c.Query("trade_type"),
		Dong:         c.Query("dong"),
		Query:        c.Query("q"),
		RegisterFrom: c.Query("register_from"),
		RegisterTo:   c.Query("register_to"),
		SortBy:       c.DefaultQuery("sort", "created_at"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	start := time.Now()
	page, err := h.db.GetListingsWithFilters(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[Listings API] duration_ms=%d total=%d limit=%d sort=%s",
		time.Since(start).Milliseconds(), page.Total, page.Limit, filters.SortBy)

	c.JSON(http.StatusOK, page)
}

// GetListing returns one listing by property number
func (h *ListingHandler) GetListing(c *gin.Context) {
	number := c.Param("number")

	listing, err := h.db.GetListingByNumber(number)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateListing creates a new listing. A missing property number is
// synthesized from the registration date, seeded from the store so API
// creates don't collide with imported rows.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var listing models.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing.Status = importer.NormalizeStatus(string(listing.Status), importer.StatusLenient)
	if listing.RegisterDate == "" {
		listing.RegisterDate = time.Now().Format("2006-01-02")
	}

	if listing.PropertyNumber == "" {
		key := importer.DateKey(listing.RegisterDate)
		if !h.numberGen.Seen(key) {
			maxSeq, err := h.db.MaxSequenceForDate(key)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			h.numberGen.Seed(key, maxSeq)
		}
		listing.PropertyNumber = h.numberGen.Next(listing.RegisterDate)
	}

	listing.IsDeleted = false
	listing.DeletedAt = nil

	if err := h.db.Insert(&listing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.indexListing(&listing)
	h.history.RecordEvent(listing.PropertyNumber, models.ChangeTypeNew)
	h.notify.NotifyListing(models.NotificationEventCreated, &listing)

	c.JSON(http.StatusCreated, listing)
}

// UpdateListing updates an existing listing, preserving its lifecycle state
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	number := c.Param("number")

	existing, err := h.db.GetListingByNumber(number)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var updated models.Listing
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated.PropertyNumber = number
	updated.Status = importer.NormalizeStatus(string(updated.Status), importer.StatusLenient)
	if updated.RegisterDate == "" {
		updated.RegisterDate = existing.RegisterDate
	}

	changes := h.history.DetectChanges(existing, &updated)

	if err := h.db.SaveListing(&updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.history.RecordChanges(changes)
	h.indexListing(&updated)
	h.notify.NotifyListing(models.NotificationEventUpdated, &updated)

	c.JSON(http.StatusOK, updated)
}

// DeleteListing soft-deletes a listing
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	number := c.Param("number")

	if err := h.db.SoftDeleteListing(number); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found or already deleted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Deleted listings disappear from search
	if h.search != nil {
		if err := h.search.RemoveListing(number); err != nil {
			log.Printf("Handlers: failed to remove listing %s from index: %v", number, err)
		}
	}

	h.history.RecordEvent(number, models.ChangeTypeDeleted)
	if listing, err := h.db.GetListingByNumber(number); err == nil {
		h.notify.NotifyListing(models.NotificationEventDeleted, listing)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted", "property_number": number})
}

// RestoreListing reverses a soft delete
func (h *ListingHandler) RestoreListing(c *gin.Context) {
	number := c.Param("number")

	if err := h.db.RestoreListing(number); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found or not deleted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.history.RecordEvent(number, models.ChangeTypeRestored)

	listing, err := h.db.GetListingByNumber(number)
	if err == nil {
		h.indexListing(listing)
		h.notify.NotifyListing(models.NotificationEventRestored, listing)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing restored", "property_number": number})
}

// SearchListings performs full-text search over non-deleted listings
func (h *ListingHandler) SearchListings(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	query := c.Query("q")
	limit := int64(20)
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.ParseInt(limitStr, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	params := search.FilterParams{
		Query:        query,
		Status:       c.Query("status"),
		PropertyType: c.Query("property_type"),
		Dong:         c.Query("dong"),
		SharedOnly:   c.Query("shared") == "true",
		SortBy:       c.Query("sort"),
		Limit:        limit,
	}
	if tradeTypes := c.Query("trade_types"); tradeTypes != "" {
		params.TradeTypes = strings.Split(tradeTypes, ",")
	}

	// Plain keyword queries skip the filter machinery
	var listings []models.Listing
	var err error
	if params.Status == "" && params.PropertyType == "" && params.Dong == "" &&
		len(params.TradeTypes) == 0 && !params.SharedOnly && params.SortBy == "" {
		listings, err = h.search.Search(query, limit)
	} else {
		listings, err = h.search.FilterSearch(params)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// AdvancedSearch performs search with explicit filters, sorting and facets
func (h *ListingHandler) AdvancedSearch(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	var reqBody struct {
		Query        string   `json:"query"`
		Limit        int64    `json:"limit"`
		Offset       int64    `json:"offset"`
		Status       string   `json:"status"`
		PropertyType string   `json:"property_type"`
		TradeTypes   []string `json:"trade_types"`
		Dong         string   `json:"dong"`
		SharedOnly   bool     `json:"shared_only"`
		HasPhotoOnly bool     `json:"has_photo_only"`
		RegisterFrom string   `json:"register_from"`
		RegisterTo   string   `json:"register_to"`
		Sort         string   `json:"sort"`
		Facets       []string `json:"facets"`
	}

	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters := []string{"is_deleted = false"}
	if reqBody.Status != "" {
		filters = append(filters, fmt.Sprintf("status = '%s'", reqBody.Status))
	}
	if reqBody.PropertyType != "" {
		filters = append(filters, fmt.Sprintf("property_type = '%s'", reqBody.PropertyType))
	}
	if len(reqBody.TradeTypes) > 0 {
		tradeFilters := make([]string, len(reqBody.TradeTypes))
		for i, tradeType := range reqBody.TradeTypes {
			tradeFilters[i] = fmt.Sprintf("trade_type = '%s'", tradeType)
		}
		filters = append(filters, "("+strings.Join(tradeFilters, " OR ")+")")
	}
	if reqBody.Dong != "" {
		filters = append(filters, fmt.Sprintf("dong = '%s'", reqBody.Dong))
	}
	if reqBody.SharedOnly {
		filters = append(filters, "shared = true")
	}
	if reqBody.HasPhotoOnly {
		filters = append(filters, "has_photo = true")
	}
	if reqBody.RegisterFrom != "" {
		filters = append(filters, fmt.Sprintf("register_date >= '%s'", reqBody.RegisterFrom))
	}
	if reqBody.RegisterTo != "" {
		filters = append(filters, fmt.Sprintf("register_date <= '%s'", reqBody.RegisterTo))
	}

	var sortConditions []string
	switch reqBody.Sort {
	case "register_date_asc":
		sortConditions = append(sortConditions, "register_date:asc")
	case "register_date_desc":
		sortConditions = append(sortConditions, "register_date:desc")
	case "newest":
		sortConditions = append(sortConditions, "created_at:desc")
	case "recently_updated":
		sortConditions = append(sortConditions, "updated_at:desc")
	}

	facets := reqBody.Facets
	if len(facets) == 0 {
		facets = []string{"status", "property_type", "trade_type"}
	}

	result, err := h.search.AdvancedSearch(search.SearchRequest{
		Query:        reqBody.Query,
		Limit:        reqBody.Limit,
		Offset:       reqBody.Offset,
		Filter:       filters,
		Sort:         sortConditions,
		FacetsFilter: facets,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hits":            result.Hits,
		"total_hits":      result.TotalHits,
		"facets":          result.Facets,
		"processing_time": result.ProcessingTime,
		"query":           reqBody.Query,
	})
}

// GetSearchFacets returns facet distributions for the filter UI
func (h *ListingHandler) GetSearchFacets(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	facets, err := h.search.GetFacets([]string{"status", "property_type", "trade_type", "dong"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"facets": facets})
}

// ReindexAll rebuilds the search index from all non-deleted listings
func (h *ListingHandler) ReindexAll(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	listings, err := h.db.GetActiveListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.search.IndexListings(listings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Handlers: reindexed %d listings", len(listings))
	c.JSON(http.StatusOK, gin.H{"indexed": len(listings)})
}

func (h *ListingHandler) indexListing(listing *models.Listing) {
	if h.search == nil {
		return
	}
	if err := h.search.IndexListing(listing); err != nil {
		log.Printf("Handlers: failed to index listing %s: %v", listing.PropertyNumber, err)
	}
}
