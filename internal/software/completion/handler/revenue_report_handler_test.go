package handler

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseReportRange(t *testing.T) {
	t.Run("defaults to the last 24 hours", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/fares/report", nil)
		from, to, err := parseReportRange(r)
		if err != nil {
			t.Fatalf("parseReportRange() error = %v", err)
		}
		if got := to.Sub(from); got != defaultReportWindow {
			t.Errorf("window = %v, want %v", got, defaultReportWindow)
		}
	})

	t.Run("explicit range", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/fares/report?from=2026-08-01T00:00:00Z&to=2026-08-02T00:00:00Z", nil)
		from, to, err := parseReportRange(r)
		if err != nil {
			t.Fatalf("parseReportRange() error = %v", err)
		}
		if from.Day() != 1 || to.Day() != 2 {
			t.Errorf("range = [%v, %v)", from, to)
		}
	})

	t.Run("partial range keeps the other default", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/fares/report?from="+time.Now().UTC().Add(-time.Hour).Format(time.RFC3339), nil)
		from, to, err := parseReportRange(r)
		if err != nil {
			t.Fatalf("parseReportRange() error = %v", err)
		}
		if !from.Before(to) {
			t.Errorf("range = [%v, %v)", from, to)
		}
	})

	t.Run("malformed timestamp rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/fares/report?from=yesterday", nil)
		if _, _, err := parseReportRange(r); err == nil {
			t.Error("parseReportRange() accepted a malformed 'from'")
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/fares/report?from=2026-08-02T00:00:00Z&to=2026-08-01T00:00:00Z", nil)
		if _, _, err := parseReportRange(r); err == nil {
			t.Error("parseReportRange() accepted from >= to")
		}
	})
}
