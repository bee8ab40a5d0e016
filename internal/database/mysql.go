package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"listing-hub/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.Listing{},
		&models.DeleteLog{},
		&models.ImportLog{},
		&models.ListingChange{},
		&models.Notification{},
	)
}

// Insert inserts a single listing
func (gdb *GormDB) Insert(l *models.Listing) error {
	return gdb.db.Create(l).Error
}

// BulkInsert inserts a batch of listings in one statement
func (gdb *GormDB) BulkInsert(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	return gdb.db.Create(&listings).Error
}

// MaxSequenceForDate returns the highest per-day sequence already stored for
// a YYYYMMDD date key
func (gdb *GormDB) MaxSequenceForDate(dateKey string) (int, error) {
	var numbers []string
	err := gdb.db.Model(&models.Listing{}).
		Where("property_number LIKE ?", dateKey+"%").
		Pluck("property_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, num := range numbers {
		if len(num) <= len(dateKey) {
			continue
		}
		if seq, err := strconv.Atoi(num[len(dateKey):]); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

// SaveListing saves or updates a listing (upsert by property_number).
// Lifecycle fields of an existing row are preserved on update.
func (gdb *GormDB) SaveListing(l *models.Listing) error {
	if l.Status == "" {
		l.Status = models.StatusAvailable
	}
	if l.RegisterDate == "" {
		l.RegisterDate = time.Now().Format("2006-01-02")
	}

	var existing models.Listing
	result := gdb.db.Where("property_number = ?", l.PropertyNumber).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		return gdb.db.Create(l).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Keep original CreatedAt and soft-delete state
	l.CreatedAt = existing.CreatedAt
	l.IsDeleted = existing.IsDeleted
	l.DeletedAt = existing.DeletedAt
	return gdb.db.Save(l).Error
}

// GetListingByNumber retrieves a listing by its property number
func (gdb *GormDB) GetListingByNumber(number string) (*models.Listing, error) {
	var listing models.Listing
	err := gdb.db.Where("property_number = ?", number).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetActiveListings retrieves all non-deleted listings, newest first
func (gdb *GormDB) GetActiveListings() ([]models.Listing, error) {
	var listings []models.Listing
	err := gdb.db.Where("is_deleted = ?", false).
		Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// GetDeletedListings retrieves soft-deleted listings, most recently deleted first
func (gdb *GormDB) GetDeletedListings(limit int) ([]models.Listing, error) {
	var listings []models.Listing
	q := gdb.db.Where("is_deleted = ?", true).Order("deleted_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&listings).Error
	return listings, err
}

// ListingFilters are the query parameters for the listings index
type ListingFilters struct {
	Status         string
	PropertyType   string
	TradeType      string
	Dong           string
	Query          string // matches property name or address
	RegisterFrom   string // YYYY-MM-DD inclusive
	RegisterTo     string // YYYY-MM-DD inclusive
	IncludeDeleted bool
	SortBy         string
	Limit          int
	Offset         int
}

// ListingPage is one page of filtered results
type ListingPage struct {
	Listings []models.Listing `json:"listings"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// GetListingsWithFilters retrieves a filtered, paginated page of listings
func (gdb *GormDB) GetListingsWithFilters(filters ListingFilters) (*ListingPage, error) {
	q := gdb.db.Model(&models.Listing{})

	if !filters.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.PropertyType != "" {
		q = q.Where("property_type = ?", filters.PropertyType)
	}
	if filters.TradeType != "" {
		q = q.Where("trade_type = ?", filters.TradeType)
	}
	if filters.Dong != "" {
		q = q.Where("dong = ?", filters.Dong)
	}
	if filters.Query != "" {
		like := "%" + strings.TrimSpace(filters.Query) + "%"
		q = q.Where("property_name LIKE ? OR address LIKE ?", like, like)
	}
	if filters.RegisterFrom != "" {
		q = q.Where("register_date >= ?", filters.RegisterFrom)
	}
	if filters.RegisterTo != "" {
		q = q.Where("register_date <= ?", filters.RegisterTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var orderClause string
	switch filters.SortBy {
	case "register_date_asc":
		orderClause = "register_date ASC"
	case "register_date", "register_date_desc":
		orderClause = "register_date DESC"
	case "updated_at":
		orderClause = "updated_at DESC"
	case "property_number":
		orderClause = "property_number ASC"
	default:
		orderClause = "created_at DESC"
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var listings []models.Listing
	err := q.Order(orderClause).Limit(limit).Offset(filters.Offset).Find(&listings).Error
	if err != nil {
		return nil, err
	}

	return &ListingPage{
		Listings: listings,
		Total:    total,
		Limit:    limit,
		Offset:   filters.Offset,
	}, nil
}

// SoftDeleteListing marks a listing as deleted (logical deletion)
func (gdb *GormDB) SoftDeleteListing(number string) error {
	now := time.Now()
	result := gdb.db.Model(&models.Listing{}).
		Where("property_number = ? AND is_deleted = ?", number, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RestoreListing reverses a soft delete
func (gdb *GormDB) RestoreListing(number string) error {
	result := gdb.db.Model(&models.Listing{}).
		Where("property_number = ? AND is_deleted = ?", number, true).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"deleted_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus returns listing counts grouped by status (non-deleted only)
func (gdb *GormDB) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := gdb.db.Model(&models.Listing{}).
		Select("status, count(*) as count").
		Where("is_deleted = ?", false).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
