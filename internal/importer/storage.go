package importer

import "listing-hub/internal/models"

// ListingStore is the persistence boundary the pipeline writes to. Both
// database backends satisfy it.
type ListingStore interface {
	// BulkInsert inserts a batch in one statement; any bad row fails the
	// whole batch.
	BulkInsert(listings []models.Listing) error

	// Insert inserts a single listing.
	Insert(l *models.Listing) error

	// MaxSequenceForDate returns the highest per-day sequence already stored
	// for a YYYYMMDD date key, 0 when none exist.
	MaxSequenceForDate(dateKey string) (int, error)
}
