package model

import (
	"fmt"
	"time"
)

// CrawlRequest is the input contract of the pipeline. Exactly one of
// Keyword or UserID must be set.
type CrawlRequest struct {
	Keyword   string `json:"keyword"`
	UserID    string `json:"user_id"`
	MaxCount  int    `json:"max_count"`
	SinceDate string `json:"since_date"`
	NgramSize int    `json:"n"`
}

func (r CrawlRequest) Validate(maxCountCeiling int) error {
	if (r.Keyword == "") == (r.UserID == "") {
		return fmt.Errorf("%w: exactly one of keyword or user_id must be set", ErrInvalidRequest)
	}
	if r.MaxCount <= 0 {
		return fmt.Errorf("%w: max_count must be positive, got %d", ErrInvalidRequest, r.MaxCount)
	}
	if r.MaxCount > maxCountCeiling {
		return fmt.Errorf("%w: max_count %d exceeds ceiling %d", ErrInvalidRequest, r.MaxCount, maxCountCeiling)
	}
	if r.NgramSize < 1 || r.NgramSize > 3 {
		return fmt.Errorf("%w: n must be 1, 2 or 3, got %d", ErrInvalidRequest, r.NgramSize)
	}
	if r.SinceDate != "" {
		if _, err := time.Parse("2006-01-02", r.SinceDate); err != nil {
			return fmt.Errorf("%w: since_date must be YYYY-MM-DD: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

// Term is the search term the request targets, used to label output.
func (r CrawlRequest) Term() string {
	if r.Keyword != "" {
		return r.Keyword
	}
	return r.UserID
}

// SinceTime returns the inclusive lower bound, if one is set. The date
// names a calendar day in the source timezone, so the bound is midnight
// there, not midnight UTC.
func (r CrawlRequest) SinceTime() (time.Time, bool) {
	if r.SinceDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", r.SinceDate, SourceZone)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
