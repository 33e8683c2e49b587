package model

import (
	"errors"
	"testing"
	"time"
)

func TestCrawlRequestValidate(t *testing.T) {
	valid := CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 2}
	if err := valid.Validate(500); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name string
		req  CrawlRequest
	}{
		{"neither target", CrawlRequest{MaxCount: 10, NgramSize: 1}},
		{"both targets", CrawlRequest{Keyword: "k", UserID: "u", MaxCount: 10, NgramSize: 1}},
		{"zero max_count", CrawlRequest{Keyword: "k", NgramSize: 1}},
		{"negative max_count", CrawlRequest{Keyword: "k", MaxCount: -5, NgramSize: 1}},
		{"max_count over ceiling", CrawlRequest{Keyword: "k", MaxCount: 501, NgramSize: 1}},
		{"n too small", CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 0}},
		{"n too large", CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 4}},
		{"bad since_date", CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 1, SinceDate: "02-05-2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(500)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("want ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestCrawlRequestTerm(t *testing.T) {
	if got := (CrawlRequest{Keyword: "k"}).Term(); got != "k" {
		t.Errorf("Term() = %q", got)
	}
	if got := (CrawlRequest{UserID: "42"}).Term(); got != "42" {
		t.Errorf("Term() = %q", got)
	}
}

func TestCrawlRequestSinceTime(t *testing.T) {
	if _, ok := (CrawlRequest{}).SinceTime(); ok {
		t.Error("empty since_date must report no bound")
	}

	got, ok := (CrawlRequest{SinceDate: "2024-05-01"}).SinceTime()
	if !ok {
		t.Fatal("expected a bound")
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, SourceZone)
	if !got.Equal(want) {
		t.Errorf("SinceTime() = %v, want %v", got, want)
	}
	// Midnight in the source zone, not midnight UTC.
	if got.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("bound must be anchored to the source timezone")
	}
}
