package importer

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"listing-hub/internal/models"
)

// Options configures one pipeline run. The source system had this pipeline
// copy-pasted into several scripts that drifted apart in batch size, status
// strictness and reseed behavior; those differences are parameters here.
type Options struct {
	SourcePath       string
	Delimiter        rune // 0 means detect from the header line
	BatchSize        int
	BatchDelay       time.Duration
	StatusPolicy     StatusPolicy
	DatePolicy       DatePolicy
	ReseedFromStore  bool
	ErrorSampleLimit int
	ReportPath       string // failure report JSON; "" disables
}

// TransformResult is the outcome of the parse/normalize stage.
type TransformResult struct {
	Listings  []models.Listing
	TotalRows int // data rows seen, header excluded
	Skipped   int // rows dropped for field-count mismatch or rejected dates
}

// Pipeline turns a delimited spreadsheet export into listings and uploads
// them. Single-threaded: rows are transformed once, batches are written
// sequentially.
type Pipeline struct {
	store ListingStore
	opts  Options
	gen   *NumberGenerator
}

// New creates a pipeline over the given store.
func New(store ListingStore, opts Options) *Pipeline {
	if opts.StatusPolicy == "" {
		opts.StatusPolicy = StatusLenient
	}
	if opts.DatePolicy == "" {
		opts.DatePolicy = DateClamp
	}
	return &Pipeline{
		store: store,
		opts:  opts,
		gen:   NewNumberGenerator(),
	}
}

// Run reads the source file, transforms it and uploads the result. The
// failure report is written next to the script when configured.
func (p *Pipeline) Run() (*TransformResult, *UploadResult, error) {
	f, err := os.Open(p.opts.SourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	transformed, err := p.Transform(f)
	if err != nil {
		return nil, nil, err
	}

	uploader := NewUploader(p.store, p.opts.BatchSize, p.opts.BatchDelay, p.opts.ErrorSampleLimit)
	uploaded := uploader.Upload(transformed.Listings)

	if p.opts.ReportPath != "" {
		if err := uploaded.WriteReport(p.opts.ReportPath); err != nil {
			log.Printf("Pipeline: failed to write failure report: %v", err)
		}
	}

	return transformed, uploaded, nil
}

// Transform parses the header and data rows into normalized listings. Rows
// whose field count does not match the header are counted and skipped.
func (p *Pipeline) Transform(r io.Reader) (*TransformResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("source file is empty")
	}

	headerLine := stripBOM(scanner.Text())
	delim := p.opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(headerLine)
	}

	headers := SplitLine(headerLine, delim)
	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = headerMapping[h] // "" for unknown headers, ignored below
	}

	result := &TransformResult{}
	rowNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		rowNum++
		if line == "" {
			continue
		}
		result.TotalRows++

		cells := SplitLine(line, delim)
		if len(cells) != len(headers) {
			result.Skipped++
			log.Printf("Pipeline: row %d skipped: %d fields, header has %d", rowNum, len(cells), len(headers))
			continue
		}

		raw := make(map[string]string, len(fields))
		for i, field := range fields {
			if field != "" && cells[i] != "" {
				raw[field] = cells[i]
			}
		}

		listing, err := p.buildListing(raw, rowNum)
		if err != nil {
			result.Skipped++
			log.Printf("Pipeline: row %d skipped: %v", rowNum, err)
			continue
		}

		result.Listings = append(result.Listings, *listing)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	log.Printf("Pipeline: transformed %d rows into %d listings (%d skipped)",
		result.TotalRows, len(result.Listings), result.Skipped)

	return result, nil
}

// buildListing turns one tokenized row into a Listing. Unparseable values
// become null or the documented default; only the DateReject policy can make
// a row fail.
func (p *Pipeline) buildListing(raw map[string]string, rowNum int) (*models.Listing, error) {
	now := time.Now()
	l := &models.Listing{
		PropertyNumber:   raw[fieldPropertyNumber],
		PropertyName:     raw[fieldPropertyName],
		PropertyType:     raw[fieldPropertyType],
		TradeType:        raw[fieldTradeType],
		Status:           NormalizeStatus(raw[fieldStatus], p.opts.StatusPolicy),
		Address:          raw[fieldAddress],
		Dong:             raw[fieldDong],
		Ho:               raw[fieldHo],
		Price:            raw[fieldPrice],
		SupplyAreaSqm:    raw[fieldSupplyAreaSqm],
		SupplyAreaPyeong: raw[fieldSupplyAreaPyeong],
		Shared:           NormalizeBool(raw[fieldShared]),
		HasPhoto:         NormalizeBool(raw[fieldHasPhoto]),
		HasVideo:         NormalizeBool(raw[fieldHasVideo]),
		HasAppearance:    NormalizeBool(raw[fieldHasAppearance]),
		OwnerName:        raw[fieldOwnerName],
		OwnerID:          raw[fieldOwnerID],
		OwnerContact:     raw[fieldOwnerContact],
		ContactRelation:  raw[fieldContactRelation],
		SpecialNotes:     raw[fieldSpecialNotes],
		ManagerMemo:      raw[fieldManagerMemo],
		ReRegisterReason: raw[fieldReRegisterReason],
		IsDeleted:        false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	l.FloorCurrent, l.FloorTotal = ExtractFloors(raw[fieldFloors])

	registerDate, err := p.normalizeDateField(fieldRegisterDate, raw[fieldRegisterDate], rowNum)
	if err != nil {
		return nil, err
	}
	if registerDate == "" {
		// Rows without a registration date are stamped with the import date
		// so the record always carries one.
		registerDate = now.Format("2006-01-02")
	}
	l.RegisterDate = registerDate

	for _, f := range []struct {
		name string
		dst  **string
	}{
		{fieldMoveInDate, &l.MoveInDate},
		{fieldApprovalDate, &l.ApprovalDate},
		{fieldCompletionDate, &l.CompletionDate},
	} {
		normalized, err := p.normalizeDateField(f.name, raw[f.name], rowNum)
		if err != nil {
			return nil, err
		}
		if normalized != "" {
			v := normalized
			*f.dst = &v
		}
	}

	if l.PropertyNumber == "" {
		if err := p.reseedIfNeeded(l.RegisterDate); err != nil {
			log.Printf("Pipeline: reseed for %s failed, continuing with in-memory counter: %v",
				l.RegisterDate, err)
		}
		l.PropertyNumber = p.gen.Next(l.RegisterDate)
	}

	return l, nil
}

func (p *Pipeline) normalizeDateField(field, raw string, rowNum int) (string, error) {
	normalized, err := NormalizeDate(raw, p.opts.DatePolicy)
	if err != nil {
		return "", fmt.Errorf("field %s value %q: %w", field, raw, err)
	}
	if raw != "" && normalized == "" {
		log.Printf("Pipeline: row %d: unparseable %s value %q, using null", rowNum, field, raw)
	}
	return normalized, nil
}

// reseedIfNeeded initializes a date key's counter from the store's current
// maximum so a re-upload after partial failure cannot collide with numbers
// persisted by an earlier run.
func (p *Pipeline) reseedIfNeeded(registerDate string) error {
	if !p.opts.ReseedFromStore {
		return nil
	}
	key := DateKey(registerDate)
	if p.gen.Seen(key) {
		return nil
	}
	maxSeq, err := p.store.MaxSequenceForDate(key)
	if err != nil {
		p.gen.Seed(key, 0)
		return err
	}
	p.gen.Seed(key, maxSeq)
	return nil
}

// stripBOM removes a UTF-8 byte order mark that spreadsheet exports often
// prepend to the header line.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
