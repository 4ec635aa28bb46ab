// Package articleurl builds the canonical date-partitioned article paths and
// recognises the legacy id-based ones.
//
// Canonical form: /article/{YYYY}/{MM}/{DD}/{slug}
// Legacy form:    /article/{opaque-id}
package articleurl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a publication date cannot be parsed.
var ErrInvalidDate = errors.New("invalid publication date")

// DateParts are the zero-padded components of a publication date.
type DateParts struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// DateLayouts are the accepted publication date formats. Layouts without
// a zone are read in the site location.
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Partitioner derives date parts in a fixed location using an injected clock.
type Partitioner struct {
	now      func() time.Time
	location *time.Location
}

// NewPartitioner creates a Partitioner. A nil clock means time.Now and a
// nil location means UTC.
func NewPartitioner(now func() time.Time, location *time.Location) *Partitioner {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &Partitioner{now: now, location: location}
}

// Now returns the current time in the partitioner's location.
func (p *Partitioner) Now() time.Time {
	return p.now().In(p.location)
}

// Parse reads an ISO-8601 publication date. Empty input means now.
func (p *Partitioner) Parse(dateString string) (time.Time, error) {
	dateString = strings.TrimSpace(dateString)
	if dateString == "" {
		return p.Now(), nil
	}
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, dateString, p.location); err == nil {
			return t.In(p.location), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateString)
}

// IsDate reports whether dateString is in one of the DateLayouts.
func IsDate(dateString string) bool {
	dateString = strings.TrimSpace(dateString)
	for _, layout := range DateLayouts {
		if _, err := time.Parse(layout, dateString); err == nil {
			return true
		}
	}
	return false
}

// Parts returns the year, month and day of dateString (or of now when empty).
func (p *Partitioner) Parts(dateString string) (DateParts, error) {
	t, err := p.Parse(dateString)
	if err != nil {
		return DateParts{}, err
	}
	return PartsOf(t), nil
}

// PartsOf splits t as-is, without changing its location.
func PartsOf(t time.Time) DateParts {
	return DateParts{
		Year:  fmt.Sprintf("%04d", t.Year()),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
	}
}

// BuildURL returns the canonical path for slug published at publishedAt.
func (p *Partitioner) BuildURL(slug, publishedAt string) (string, error) {
	parts, err := p.Parts(publishedAt)
	if err != nil {
		return "", err
	}
	return Path(parts, slug), nil
}

// Path joins date parts and a slug into the canonical article path.
func Path(parts DateParts, slug string) string {
	return fmt.Sprintf("/article/%s/%s/%s/%s", parts.Year, parts.Month, parts.Day, slug)
}

// LegacyPath is the id-based path used by articles created before slugs.
func LegacyPath(id string) string {
	return "/article/" + id
}

var (
	singleSegment = regexp.MustCompile(`^/article/([^/]+)$`)
	yearLike      = regexp.MustCompile(`^20\d{2}$`)
)

// ClassifyArticlePath reports whether path is a legacy /article/{id} URL and
// returns the id. Single segments that look like a year (20xx) are treated
// as the start of a canonical path and pass through, which means a four
// character legacy id starting with "20" cannot be reached this way.
func ClassifyArticlePath(path string) (string, bool) {
	m := singleSegment.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	if yearLike.MatchString(m[1]) {
		return "", false
	}
	return m[1], true
}
