package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"listing-hub/internal/models"

	_ "github.com/lib/pq"
)

type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname, sslmode string) (*DB, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the listings table if it doesn't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		property_number VARCHAR(32) PRIMARY KEY,
		property_name TEXT,
		property_type VARCHAR(50),
		trade_type VARCHAR(50),
		status VARCHAR(20) NOT NULL DEFAULT '거래가능',

		address TEXT,
		dong VARCHAR(50),
		ho VARCHAR(50),

		price VARCHAR(200),
		supply_area_sqm VARCHAR(100),
		supply_area_pyeong VARCHAR(100),
		floor_current INTEGER,
		floor_total INTEGER,

		register_date VARCHAR(10) NOT NULL,
		move_in_date VARCHAR(10),
		approval_date VARCHAR(10),
		completion_date VARCHAR(10),

		shared BOOLEAN NOT NULL DEFAULT FALSE,
		has_photo BOOLEAN NOT NULL DEFAULT FALSE,
		has_video BOOLEAN NOT NULL DEFAULT FALSE,
		has_appearance BOOLEAN NOT NULL DEFAULT FALSE,

		owner_name VARCHAR(100),
		owner_id VARCHAR(100),
		owner_contact VARCHAR(100),
		contact_relation VARCHAR(100),
		special_notes TEXT,
		manager_memo TEXT,
		re_register_reason TEXT,

		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	CREATE INDEX IF NOT EXISTS idx_listings_register_date ON listings(register_date);
	CREATE INDEX IF NOT EXISTS idx_listings_is_deleted ON listings(is_deleted);
	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);
	`
	_, err := db.conn.Exec(query)
	return err
}

const listingColumns = `property_number, property_name, property_type, trade_type, status,
	address, dong, ho, price, supply_area_sqm, supply_area_pyeong,
	floor_current, floor_total,
	register_date, move_in_date, approval_date, completion_date,
	shared, has_photo, has_video, has_appearance,
	owner_name, owner_id, owner_contact, contact_relation,
	special_notes, manager_memo, re_register_reason,
	is_deleted, deleted_at, created_at, updated_at`

const listingColumnCount = 32

func listingArgs(l *models.Listing) []interface{} {
	return []interface{}{
		l.PropertyNumber, l.PropertyName, l.PropertyType, l.TradeType, string(l.Status),
		l.Address, l.Dong, l.Ho, l.Price, l.SupplyAreaSqm, l.SupplyAreaPyeong,
		l.FloorCurrent, l.FloorTotal,
		l.RegisterDate, l.MoveInDate, l.ApprovalDate, l.CompletionDate,
		l.Shared, l.HasPhoto, l.HasVideo, l.HasAppearance,
		l.OwnerName, l.OwnerID, l.OwnerContact, l.ContactRelation,
		l.SpecialNotes, l.ManagerMemo, l.ReRegisterReason,
		l.IsDeleted, l.DeletedAt, l.CreatedAt, l.UpdatedAt,
	}
}

func scanListing(scanner interface{ Scan(...interface{}) error }) (*models.Listing, error) {
	var l models.Listing
	var status string
	err := scanner.Scan(
		&l.PropertyNumber, &l.PropertyName, &l.PropertyType, &l.TradeType, &status,
		&l.Address, &l.Dong, &l.Ho, &l.Price, &l.SupplyAreaSqm, &l.SupplyAreaPyeong,
		&l.FloorCurrent, &l.FloorTotal,
		&l.RegisterDate, &l.MoveInDate, &l.ApprovalDate, &l.CompletionDate,
		&l.Shared, &l.HasPhoto, &l.HasVideo, &l.HasAppearance,
		&l.OwnerName, &l.OwnerID, &l.OwnerContact, &l.ContactRelation,
		&l.SpecialNotes, &l.ManagerMemo, &l.ReRegisterReason,
		&l.IsDeleted, &l.DeletedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = models.ListingStatus(status)
	return &l, nil
}

// Insert inserts a single listing
func (db *DB) Insert(l *models.Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}

	placeholders := make([]string, listingColumnCount)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO listings (%s) VALUES (%s)",
		listingColumns, strings.Join(placeholders, ", "))
	_, err := db.conn.Exec(query, listingArgs(l)...)
	return err
}

// BulkInsert inserts a batch of listings in one statement. Any bad row fails
// the whole statement, which is what the uploader's fallback relies on.
func (db *DB) BulkInsert(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	valueGroups := make([]string, 0, len(listings))
	args := make([]interface{}, 0, len(listings)*listingColumnCount)

	for i := range listings {
		l := &listings[i]
		if l.CreatedAt.IsZero() {
			l.CreatedAt = time.Now()
		}
		if l.UpdatedAt.IsZero() {
			l.UpdatedAt = l.CreatedAt
		}

		placeholders := make([]string, listingColumnCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*listingColumnCount+j+1)
		}
		valueGroups = append(valueGroups, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, listingArgs(l)...)
	}

	query := fmt.Sprintf("INSERT INTO listings (%s) VALUES %s",
		listingColumns, strings.Join(valueGroups, ", "))
	_, err := db.conn.Exec(query, args...)
	return err
}

// MaxSequenceForDate returns the highest per-day sequence already stored for
// a YYYYMMDD date key
func (db *DB) MaxSequenceForDate(dateKey string) (int, error) {
	rows, err := db.conn.Query(
		"SELECT property_number FROM listings WHERE property_number LIKE $1",
		dateKey+"%")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	maxSeq := 0
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			return 0, err
		}
		if len(num) <= len(dateKey) {
			continue
		}
		if seq, err := strconv.Atoi(num[len(dateKey):]); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, rows.Err()
}

// GetActiveListings retrieves all non-deleted listings
func (db *DB) GetActiveListings() ([]models.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC
	`, listingColumns)

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}

	return listings, rows.Err()
}

// GetListingByNumber retrieves a listing by its property number
func (db *DB) GetListingByNumber(number string) (*models.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings WHERE property_number = $1", listingColumns)
	return scanListing(db.conn.QueryRow(query, number))
}
