package chain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chainfetch/internal/marketdata"
)

const isoDate = "2006-01-02"

// previewLen bounds how many offered dates an ExpirationNotFoundError lists.
const previewLen = 8

var (
	ErrNoExpirations      = errors.New("no option expirations found")
	ErrExpirationNotFound = errors.New("expiration not found")
)

// ExpirationNotFoundError reports a requested date that the provider does not list.
type ExpirationNotFoundError struct {
	Requested string
	Available []time.Time
}

func (e *ExpirationNotFoundError) Error() string {
	n := min(len(e.Available), previewLen)
	dates := make([]string, n)
	for i := range n {
		dates[i] = e.Available[i].Format(isoDate)
	}
	more := ""
	if len(e.Available) > n {
		more = " ..."
	}
	return fmt.Sprintf("requested expiration %s not in available list: [%s]%s", e.Requested, strings.Join(dates, " "), more)
}

func (e *ExpirationNotFoundError) Is(target error) bool { return target == ErrExpirationNotFound }

// SelectExpiration resolves requested against the provider's dates. A requested
// date matches when its digits equal a listed date's digits, so 2025-06-19 and
// 20250619 are the same. Without a request the earliest date on or after today
// wins, falling back to the latest date when all are in the past.
func SelectExpiration(available []time.Time, requested string, today time.Time) (time.Time, error) {
	if len(available) == 0 {
		return time.Time{}, ErrNoExpirations
	}

	if requested != "" {
		key := digits(requested)
		for _, d := range available {
			if digits(d.Format(isoDate)) == key {
				return d, nil
			}
		}
		return time.Time{}, &ExpirationNotFoundError{Requested: requested, Available: available}
	}

	day := marketdata.Date(today)
	for _, d := range available {
		if !marketdata.Date(d).Before(day) {
			return d, nil
		}
	}
	return available[len(available)-1], nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
