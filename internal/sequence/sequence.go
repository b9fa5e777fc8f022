// Package sequence derives the human readable request numbers of the form
// RFP-YYYY-MM-NNNN. The numeric suffix restarts at 0001 every month.
//
// The generator is a pure function over the greatest number already taken
// for the month. Serializing concurrent creations is the caller's job, the
// lifecycle manager retries on duplicate key conflicts.
package sequence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const suffixDigits = 4

var (
	// ErrMonthExhausted is returned when the 4 digit suffix would overflow.
	ErrMonthExhausted = errors.New("request number space for this month is exhausted")

	// ErrMalformedNumber is returned when the stored greatest number does not
	// have the expected shape.
	ErrMalformedNumber = errors.New("existing request number is malformed")
)

var numberPattern = regexp.MustCompile(`^RFP-\d{4}-\d{2}-(\d{4})$`)

// MonthPrefix builds the month scoped prefix, e.g. RFP-2025-01.
func MonthPrefix(now time.Time) string {
	return fmt.Sprintf("RFP-%04d-%02d", now.Year(), int(now.Month()))
}

// Next computes the request number following greatest within the month of
// now. An empty greatest starts the month at 0001. greatest must carry the
// month's own prefix, numbers from other months are a caller error.
func Next(now time.Time, greatest string) (string, error) {
	prefix := MonthPrefix(now)

	if greatest == "" {
		return fmt.Sprintf("%s-%04d", prefix, 1), nil
	}

	if !strings.HasPrefix(greatest, prefix+"-") {
		return "", fmt.Errorf("%w: %q does not match prefix %q", ErrMalformedNumber, greatest, prefix)
	}

	matches := numberPattern.FindStringSubmatch(greatest)
	if matches == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedNumber, greatest)
	}

	suffix, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedNumber, greatest)
	}

	if suffix >= 9999 {
		return "", ErrMonthExhausted
	}

	return fmt.Sprintf("%s-%0*d", prefix, suffixDigits, suffix+1), nil
}
