package importer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"listing-hub/internal/models"
)

// DatePolicy controls what happens to a date whose day or month is outside
// the plausible range. The source data contains genuinely corrupt entries;
// clamping preserves them, nulling drops the field, rejecting drops the row.
type DatePolicy string

const (
	DateClamp  DatePolicy = "clamp"
	DateNull   DatePolicy = "null"
	DateReject DatePolicy = "reject"
)

// StatusPolicy selects between the lenient label lookup (unknown labels
// default to available) and the strict allow-list (anything outside the
// enumerated set becomes available, aliases included).
type StatusPolicy string

const (
	StatusLenient StatusPolicy = "lenient"
	StatusStrict  StatusPolicy = "strict"
)

// ErrDateOutOfRange is returned under DateReject for implausible day/month values.
var ErrDateOutOfRange = errors.New("date component out of range")

var intRunRegexp = regexp.MustCompile(`\d+`)

// genericDateLayouts are tried when the input matches none of the dashed or
// dotted spreadsheet forms.
var genericDateLayouts = []string{
	"2006/01/02",
	"20060102",
	"2006년 01월 02일",
}

// lenientStatusMap maps every recognized source label to a canonical status.
var lenientStatusMap = map[string]models.ListingStatus{
	"거래가능": models.StatusAvailable,
	"확인필요": models.StatusAvailable,
	"재확인":  models.StatusAvailable,
	"거래보류": models.StatusOnHold,
	"보류":   models.StatusOnHold,
	"거래보류중": models.StatusOnHold,
	"거래완료": models.StatusCompleted,
	"완료":   models.StatusCompleted,
	"계약완료": models.StatusCompleted,
	"매물철회": models.StatusWithdrawn,
	"철회":   models.StatusWithdrawn,
	"매물철회됨": models.StatusWithdrawn,
}

// strictStatusAllowList is the five-member enumerated set accepted under
// StatusStrict. 확인필요 is in the set but still lands on available.
var strictStatusAllowList = map[string]models.ListingStatus{
	"거래가능": models.StatusAvailable,
	"거래보류": models.StatusOnHold,
	"거래완료": models.StatusCompleted,
	"매물철회": models.StatusWithdrawn,
	"확인필요": models.StatusAvailable,
}

// NormalizeBool maps truthy strings to true, falsy strings to false, and
// anything else to false. Applied only to the four flag fields.
func NormalizeBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// NormalizeStatus maps a raw status label to a canonical status. Unrecognized
// or empty input defaults to available under both policies.
func NormalizeStatus(raw string, policy StatusPolicy) models.ListingStatus {
	label := strings.TrimSpace(raw)
	if label == "" {
		return models.StatusAvailable
	}

	table := lenientStatusMap
	if policy == StatusStrict {
		table = strictStatusAllowList
	}
	if status, ok := table[label]; ok {
		return status
	}
	return models.StatusAvailable
}

// NormalizeDate converts the spreadsheet date forms to canonical YYYY-MM-DD.
// Accepted: YYYY-MM-DD, YY-MM-DD (>=90 means 1900s, else 2000s) and their
// dotted variants, with any trailing time-of-day stripped first. Other forms
// are attempted through generic layouts. An empty result with a nil error
// means the field becomes null; dates are never left as free text.
//
// Out-of-range day/month handling follows the policy: clamp coerces
// (day>31→19, day 0→1, month>12→12, month 0→1), null drops the field,
// reject returns ErrDateOutOfRange.
func NormalizeDate(raw string, policy DatePolicy) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}

	// Strip a trailing time component ("2023-12-09 14:30" or ISO "T" form).
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ".", "-")

	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		day, errD := strconv.Atoi(parts[2])
		if errY == nil && errM == nil && errD == nil {
			if len(parts[0]) <= 2 {
				if year >= 90 {
					year += 1900
				} else {
					year += 2000
				}
			}
			return buildDate(year, month, day, policy)
		}
	}

	return genericParseDate(s)
}

// buildDate applies the out-of-range policy and formats the canonical string.
func buildDate(year, month, day int, policy DatePolicy) (string, error) {
	outOfRange := month < 1 || month > 12 || day < 1 || day > 31

	if outOfRange {
		switch policy {
		case DateNull:
			return "", nil
		case DateReject:
			return "", ErrDateOutOfRange
		default:
			if day > 31 {
				day = 19
			}
			if day < 1 {
				day = 1
			}
			if month > 12 {
				month = 12
			}
			if month < 1 {
				month = 1
			}
		}
	}

	return formatDate(year, month, day), nil
}

func formatDate(year, month, day int) string {
	var b strings.Builder
	b.WriteString(pad(year, 4))
	b.WriteByte('-')
	b.WriteString(pad(month, 2))
	b.WriteByte('-')
	b.WriteString(pad(day, 2))
	return b.String()
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// genericParseDate is the last-resort attempt for unusual formats.
func genericParseDate(s string) (string, error) {
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", nil
}

// ExtractFloors pulls current/total floor numbers out of a combined
// "15/20"-style field. The leading integer run before the first slash is the
// current floor, the first integer run after it the total; either half is nil
// when no digits are found there.
func ExtractFloors(raw string) (current *int, total *int) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	parts := strings.SplitN(s, "/", 2)
	current = firstIntRun(parts[0])
	if len(parts) == 2 {
		total = firstIntRun(parts[1])
	}
	return current, total
}

func firstIntRun(s string) *int {
	match := intRunRegexp.FindString(s)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}
