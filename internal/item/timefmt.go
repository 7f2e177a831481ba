package item

import "time"

// NativeFormat is the host store's timestamp layout. Values carry no zone
// marker; the zone is implied by the column (site timezone or UTC).
const NativeFormat = "2006-01-02 15:04:05"

// FormatNative renders t in the host's native layout, in t's own location.
func FormatNative(t time.Time) string {
	return t.Format(NativeFormat)
}

// ParseNative parses a native-format timestamp, interpreting it in loc.
func ParseNative(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(NativeFormat, s, loc)
}

// FormatCanonical renders t as the canonical ISO-8601 form used for
// cached timestamps (RFC 3339, UTC).
func FormatCanonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseCanonical parses a canonical ISO-8601 timestamp.
func ParseCanonical(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// StampPair renders t as the (site-local, UTC) native timestamp pair.
func StampPair(t time.Time, loc *time.Location) (local, utc string) {
	return FormatNative(t.In(loc)), FormatNative(t.UTC())
}

// RecomputeUTC derives the UTC native timestamp from a site-local one.
func RecomputeUTC(local string, loc *time.Location) (string, error) {
	t, err := ParseNative(local, loc)
	if err != nil {
		return "", err
	}
	return FormatNative(t.UTC()), nil
}
