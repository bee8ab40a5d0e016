package importer

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"listing-hub/internal/models"
)

// RowError is one sampled failure for the diagnostic summary.
type RowError struct {
	Row            int    `json:"row"`
	PropertyNumber string `json:"property_number"`
	PropertyName   string `json:"property_name"`
	Status         string `json:"status"`
	Error          string `json:"error"`
}

// UploadResult is the summary of one upload run.
type UploadResult struct {
	Total        int        `json:"total"`
	SuccessCount int        `json:"success_count"`
	ErrorCount   int        `json:"error_count"`
	Errors       []RowError `json:"errors,omitempty"` // sampled, bounded
	FailedRows   []RowError `json:"-"`                // every failure, for the report file
}

// Uploader persists listings in ordered batches with per-row fallback.
// Batches go out sequentially in input order; a failed bulk insert triggers
// exactly one individual attempt per row of that batch, also in order. No
// record is ever attempted more than twice.
type Uploader struct {
	store       ListingStore
	batchSize   int
	batchDelay  time.Duration
	sampleLimit int
}

// NewUploader creates an uploader. Zero values fall back to a batch size of
// 50, a 150ms inter-batch delay and 10 sampled errors.
func NewUploader(store ListingStore, batchSize int, batchDelay time.Duration, sampleLimit int) *Uploader {
	if batchSize <= 0 {
		batchSize = 50
	}
	if batchDelay <= 0 {
		batchDelay = 150 * time.Millisecond
	}
	if sampleLimit <= 0 {
		sampleLimit = 10
	}
	return &Uploader{
		store:       store,
		batchSize:   batchSize,
		batchDelay:  batchDelay,
		sampleLimit: sampleLimit,
	}
}

// Upload writes all listings and returns the tally. Permanent failures are
// reported, not raised; one bad row never aborts the run.
func (u *Uploader) Upload(listings []models.Listing) *UploadResult {
	result := &UploadResult{Total: len(listings)}
	if len(listings) == 0 {
		return result
	}

	batchCount := (len(listings) + u.batchSize - 1) / u.batchSize

	for start := 0; start < len(listings); start += u.batchSize {
		end := start + u.batchSize
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]
		batchNo := start/u.batchSize + 1

		if err := u.store.BulkInsert(batch); err != nil {
			log.Printf("Uploader: batch %d/%d bulk insert failed (%v), falling back to row-by-row", batchNo, batchCount, err)
			u.uploadIndividually(batch, start, result)
		} else {
			result.SuccessCount += len(batch)
			log.Printf("Uploader: batch %d/%d inserted %d rows", batchNo, batchCount, len(batch))
		}

		// Stay under the backend's implicit rate limit.
		if end < len(listings) {
			time.Sleep(u.batchDelay)
		}
	}

	log.Printf("Uploader: done. success=%d errors=%d total=%d",
		result.SuccessCount, result.ErrorCount, result.Total)

	return result
}

// uploadIndividually retries each row of a failed batch once, in input order.
func (u *Uploader) uploadIndividually(batch []models.Listing, offset int, result *UploadResult) {
	for i := range batch {
		l := batch[i]
		if err := u.store.Insert(&l); err != nil {
			result.ErrorCount++
			rowErr := RowError{
				Row:            offset + i,
				PropertyNumber: l.PropertyNumber,
				PropertyName:   l.PropertyName,
				Status:         string(l.Status),
				Error:          err.Error(),
			}
			result.FailedRows = append(result.FailedRows, rowErr)
			if len(result.Errors) < u.sampleLimit {
				result.Errors = append(result.Errors, rowErr)
			}
			log.Printf("Uploader: row %d (%s) failed: %v", offset+i, l.PropertyNumber, err)
			continue
		}
		result.SuccessCount++
	}
}

// WriteReport writes every failed row to a JSON side file for manual
// inspection and retry. Nothing is written when there are no failures.
func (r *UploadResult) WriteReport(path string) error {
	if len(r.FailedRows) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(r.FailedRows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal failure report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write failure report: %w", err)
	}

	log.Printf("Uploader: wrote %d failed rows to %s", len(r.FailedRows), path)
	return nil
}
