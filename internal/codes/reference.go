// Package codes issues human-readable identifiers: year-scoped project
// reference codes and name-derived referral codes.
package codes

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProjectCounter counts projects created at or after a point in time.
type ProjectCounter interface {
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type ReferenceIssuer struct {
	prefix  string
	counter ProjectCounter
}

func NewReferenceIssuer(prefix string, counter ProjectCounter) *ReferenceIssuer {
	return &ReferenceIssuer{
		prefix:  strings.ToUpper(strings.TrimSpace(prefix)),
		counter: counter,
	}
}

// Issue returns PREFIX-YYYY-NNNNN where NNNNN is one more than the number of
// projects created since Jan 1 of now's year. The count is not serialised
// against concurrent issuance; callers rely on the unique constraint on
// reference_code to detect a collision.
func (i *ReferenceIssuer) Issue(ctx context.Context, now time.Time) (string, error) {
	since := YearStart(now)

	count, err := i.counter.CountCreatedSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("count projects for %d: %w", now.Year(), err)
	}

	return FormatReference(i.prefix, now.Year(), count+1), nil
}

func FormatReference(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

func YearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}
