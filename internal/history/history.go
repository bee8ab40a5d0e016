package history

import (
	"log"

	"listing-hub/internal/models"

	"gorm.io/gorm"
)

// Service records field-level changes on listing updates
type Service struct {
	db *gorm.DB
}

// NewService creates a new history service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DetectChanges compares the stored listing with the incoming update and
// returns one change row per differing tracked field.
func (s *Service) DetectChanges(old, updated *models.Listing) []models.ListingChange {
	var changes []models.ListingChange

	if old.Status != updated.Status {
		changes = append(changes, models.ListingChange{
			PropertyNumber: old.PropertyNumber,
			ChangeType:     models.ChangeTypeStatus,
			OldValue:       string(old.Status),
			NewValue:       string(updated.Status),
		})
	}
	if old.Price != updated.Price {
		changes = append(changes, models.ListingChange{
			PropertyNumber: old.PropertyNumber,
			ChangeType:     models.ChangeTypePrice,
			OldValue:       old.Price,
			NewValue:       updated.Price,
		})
	}
	if old.PropertyName != updated.PropertyName {
		changes = append(changes, models.ListingChange{
			PropertyNumber: old.PropertyNumber,
			ChangeType:     models.ChangeTypeName,
			OldValue:       old.PropertyName,
			NewValue:       updated.PropertyName,
		})
	}
	if old.Address != updated.Address {
		changes = append(changes, models.ListingChange{
			PropertyNumber: old.PropertyNumber,
			ChangeType:     models.ChangeTypeAddress,
			OldValue:       old.Address,
			NewValue:       updated.Address,
		})
	}
	if old.ManagerMemo != updated.ManagerMemo {
		changes = append(changes, models.ListingChange{
			PropertyNumber: old.PropertyNumber,
			ChangeType:     models.ChangeTypeMemo,
			OldValue:       old.ManagerMemo,
			NewValue:       updated.ManagerMemo,
		})
	}

	return changes
}

// RecordChanges persists detected changes. Failures are logged, not raised;
// history is auxiliary to the data write.
func (s *Service) RecordChanges(changes []models.ListingChange) {
	if len(changes) == 0 {
		return
	}
	if err := s.db.Create(&changes).Error; err != nil {
		log.Printf("History: failed to record %d changes: %v", len(changes), err)
	}
}

// RecordEvent persists a single lifecycle event (created, deleted, restored).
func (s *Service) RecordEvent(propertyNumber, changeType string) {
	change := models.ListingChange{
		PropertyNumber: propertyNumber,
		ChangeType:     changeType,
	}
	if err := s.db.Create(&change).Error; err != nil {
		log.Printf("History: failed to record %s for %s: %v", changeType, propertyNumber, err)
	}
}

// GetListingHistory returns change rows for one listing, newest first
func (s *Service) GetListingHistory(propertyNumber string, limit int) ([]models.ListingChange, error) {
	var changes []models.ListingChange
	err := s.db.Where("property_number = ?", propertyNumber).
		Order("detected_at DESC").
		Limit(limit).
		Find(&changes).Error
	return changes, err
}

// GetRecentChanges returns the most recent change rows across all listings
func (s *Service) GetRecentChanges(limit int) ([]models.ListingChange, error) {
	var changes []models.ListingChange
	err := s.db.Order("detected_at DESC").Limit(limit).Find(&changes).Error
	return changes, err
}
