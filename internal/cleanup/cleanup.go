package cleanup

import (
	"fmt"
	"log"
	"time"

	"listing-hub/internal/models"

	"gorm.io/gorm"
)

// Service handles physical deletion of old soft-deleted listings
type Service struct {
	db *gorm.DB
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays    int  // Days to keep soft-deleted listings before purging (default: 90)
	MaxDeletionCount int  // Maximum number of listings to purge in one run (safety limit)
	DryRun           bool // If true, only log what would be purged without actually purging
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount    int       `json:"target_count"`    // Number of listings eligible for purging
	DeletedCount   int       `json:"deleted_count"`   // Number of listings actually purged
	ErrorCount     int       `json:"error_count"`     // Number of errors encountered
	DryRun         bool      `json:"dry_run"`         // Whether this was a dry run
	ExecutedAt     time.Time `json:"executed_at"`     // When the cleanup was executed
	DeletedNumbers []string  `json:"deleted_numbers"` // Property numbers of purged listings
	Errors         []string  `json:"errors,omitempty"`
}

// FindExpiredListings finds soft-deleted listings eligible for purging:
// is_deleted is set and deleted_at is older than retentionDays.
func (s *Service) FindExpiredListings(retentionDays int) ([]models.Listing, error) {
	var listings []models.Listing

	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	err := s.db.Where("is_deleted = ? AND deleted_at < ?", true, cutoffDate).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired listings: %w", err)
	}

	log.Printf("Cleanup: found %d listings soft-deleted before %s", len(listings), cutoffDate.Format("2006-01-02"))
	return listings, nil
}

// PhysicallyDelete purges expired soft-deleted listings, one transaction per
// row so a single failure doesn't abort the run.
func (s *Service) PhysicallyDelete(config CleanupConfig) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:     config.DryRun,
		ExecutedAt: time.Now(),
	}

	expired, err := s.FindExpiredListings(config.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(expired)

	if result.TargetCount == 0 {
		log.Println("Cleanup: no expired listings found for purging")
		return result, nil
	}

	// Safety check: abort if too many listings would be purged
	if result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d listings exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	log.Printf("Cleanup: starting purge of %d listings (retention: %d days, dry-run: %v)",
		result.TargetCount, config.RetentionDays, config.DryRun)

	for _, listing := range expired {
		if config.DryRun {
			log.Printf("Cleanup: [DRY-RUN] would purge listing %s (%s, soft-deleted %s)",
				listing.PropertyNumber, listing.PropertyName, listing.DeletedAt.Format("2006-01-02"))
			result.DeletedNumbers = append(result.DeletedNumbers, listing.PropertyNumber)
			result.DeletedCount++
			continue
		}

		tx := s.db.Begin()

		deleteLog := models.DeleteLog{
			PropertyNumber: listing.PropertyNumber,
			PropertyName:   listing.PropertyName,
			Address:        listing.Address,
			SoftDeletedAt:  *listing.DeletedAt,
			Reason:         models.DeleteReasonExpired,
		}

		if err := tx.Create(&deleteLog).Error; err != nil {
			tx.Rollback()
			errMsg := fmt.Sprintf("failed to create delete log for listing %s: %v", listing.PropertyNumber, err)
			log.Printf("Cleanup: ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		if err := tx.Delete(&listing).Error; err != nil {
			tx.Rollback()
			errMsg := fmt.Sprintf("failed to purge listing %s: %v", listing.PropertyNumber, err)
			log.Printf("Cleanup: ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		if err := tx.Commit().Error; err != nil {
			errMsg := fmt.Sprintf("failed to commit purge for listing %s: %v", listing.PropertyNumber, err)
			log.Printf("Cleanup: ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		log.Printf("Cleanup: purged listing %s (%s)", listing.PropertyNumber, listing.PropertyName)
		result.DeletedNumbers = append(result.DeletedNumbers, listing.PropertyNumber)
		result.DeletedCount++
	}

	log.Printf("Cleanup: completed: %d/%d purged, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, config.DryRun)

	return result, nil
}

// GetDeleteStats returns statistics about purged listings
func (s *Service) GetDeleteStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalDeleted int64
	if err := s.db.Model(&models.DeleteLog{}).Count(&totalDeleted).Error; err != nil {
		return nil, err
	}
	stats["total_purged"] = totalDeleted

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := s.db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	// Recent purges (last 30 days)
	var recentDeleted int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentDeleted).Error; err != nil {
		return nil, err
	}
	stats["purged_last_30_days"] = recentDeleted

	// Current soft-deleted count (pending purge)
	var currentDeleted int64
	if err := s.db.Model(&models.Listing{}).
		Where("is_deleted = ?", true).
		Count(&currentDeleted).Error; err != nil {
		return nil, err
	}
	stats["currently_soft_deleted"] = currentDeleted

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(limit int) ([]models.DeleteLog, error) {
	var logs []models.DeleteLog
	err := s.db.Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
