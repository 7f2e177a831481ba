package item

import (
	"testing"
	"time"
)

func TestStampPair(t *testing.T) {
	loc := time.FixedZone("site", 2*60*60)
	instant := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)

	local, utc := StampPair(instant, loc)
	if local != "2026-03-15 14:30:00" {
		t.Errorf("local = %q, want %q", local, "2026-03-15 14:30:00")
	}
	if utc != "2026-03-15 12:30:00" {
		t.Errorf("utc = %q, want %q", utc, "2026-03-15 12:30:00")
	}
}

func TestStampPair_UTC(t *testing.T) {
	instant := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)

	local, utc := StampPair(instant, time.UTC)
	if local != utc {
		t.Errorf("local %q != utc %q under UTC site timezone", local, utc)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	instant := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	s := FormatCanonical(instant)
	if s != "2026-02-01T08:00:00Z" {
		t.Errorf("FormatCanonical = %q, want %q", s, "2026-02-01T08:00:00Z")
	}

	parsed, err := ParseCanonical(s)
	if err != nil {
		t.Fatalf("ParseCanonical failed: %v", err)
	}
	if !parsed.Equal(instant) {
		t.Errorf("round trip = %v, want %v", parsed, instant)
	}
}

func TestFormatCanonical_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("site", -5*60*60)
	instant := time.Date(2026, 2, 1, 3, 0, 0, 0, loc)

	if s := FormatCanonical(instant); s != "2026-02-01T08:00:00Z" {
		t.Errorf("FormatCanonical = %q, want UTC form", s)
	}
}

func TestParseNative(t *testing.T) {
	loc := time.FixedZone("site", 2*60*60)

	parsed, err := ParseNative("2026-03-15 14:30:00", loc)
	if err != nil {
		t.Fatalf("ParseNative failed: %v", err)
	}
	want := time.Date(2026, 3, 15, 14, 30, 0, 0, loc)
	if !parsed.Equal(want) {
		t.Errorf("ParseNative = %v, want %v", parsed, want)
	}

	if _, err := ParseNative("2026-03-15T14:30:00Z", loc); err == nil {
		t.Error("ParseNative accepted RFC 3339 input")
	}
	if _, err := ParseNative("", loc); err == nil {
		t.Error("ParseNative accepted empty input")
	}
}

func TestRecomputeUTC(t *testing.T) {
	loc := time.FixedZone("site", 2*60*60)

	utc, err := RecomputeUTC("2026-03-15 14:30:00", loc)
	if err != nil {
		t.Fatalf("RecomputeUTC failed: %v", err)
	}
	if utc != "2026-03-15 12:30:00" {
		t.Errorf("RecomputeUTC = %q, want %q", utc, "2026-03-15 12:30:00")
	}

	if _, err := RecomputeUTC("garbage", loc); err == nil {
		t.Error("RecomputeUTC accepted malformed input")
	}
}
