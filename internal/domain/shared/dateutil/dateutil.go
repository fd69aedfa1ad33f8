// Package dateutil converts celebration and expiry dates between the
// pt-BR display form (dd/mm/yyyy) and the ISO form used in storage.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DisplayLayout is the pt-BR calendar date layout
	DisplayLayout = "02/01/2006"
	// StorageLayout is the ISO calendar date layout
	StorageLayout = "2006-01-02"
)

// ErrInvalidDate is returned when a date string cannot be parsed
var ErrInvalidDate = errors.New("dateutil: invalid date")

// FormatDisplay renders t as dd/mm/yyyy
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// FormatStorage renders t as yyyy-mm-dd
func FormatStorage(t time.Time) string {
	return t.Format(StorageLayout)
}

// ParseDisplay parses d/m/yyyy (zero padding optional) as local midnight
func ParseDisplay(s string) (time.Time, error) {
	return ParseDisplayIn(s, time.Local)
}

// ParseDisplayIn parses d/m/yyyy as midnight in loc.
// Out-of-range days roll over into the next month the way calendar arithmetic does.
func ParseDisplayIn(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// Parse accepts the display form, the ISO date form, or an RFC 3339 timestamp
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if strings.Contains(s, "/") {
		return ParseDisplay(s)
	}
	if t, err := time.ParseInLocation(StorageLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ToStorage converts any accepted form into yyyy-mm-dd
func ToStorage(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return FormatStorage(t), nil
}

// ToDisplay converts any accepted form into dd/mm/yyyy
func ToDisplay(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return FormatDisplay(t.In(time.Local)), nil
}

// IsExpired reports whether an expiry date no longer lies in the future.
// The expiry is read as midnight at the start of that day in now's location,
// so a card expiring today is already expired once the day has begun.
func IsExpired(expiresAt string, now time.Time) (bool, error) {
	var (
		expiry time.Time
		err    error
	)
	if strings.Contains(expiresAt, "/") {
		expiry, err = ParseDisplayIn(expiresAt, now.Location())
	} else {
		expiry, err = Parse(expiresAt)
	}
	if err != nil {
		return false, err
	}
	return !expiry.After(now), nil
}

// ExpiryAfter returns the display date days after now
func ExpiryAfter(now time.Time, days int) string {
	return FormatDisplay(now.AddDate(0, 0, days))
}
