package item

// Item statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// DefaultType is the item type assigned when none is given.
const DefaultType = "post"

// Item represents a single content item managed by the host store.
// Timestamps are kept in the host's native string form (see timefmt.go):
// ModifiedAt in the site timezone, ModifiedAtUTC in UTC.
type Item struct {
	// ID is a ULID that uniquely identifies this item
	ID string

	// Type is the content type (e.g. "post", "page")
	Type string

	// Title is an optional human-readable title
	Title *string

	// Body is the main content of the item
	Body string

	// Status is the publishing state (draft or published)
	Status string

	// Tags is a list of tags for categorization (stored as JSON in DB)
	Tags []string

	// CreatedAt is the native-format creation timestamp (site timezone)
	CreatedAt string

	// ModifiedAt is the native-format last-modified timestamp (site timezone)
	ModifiedAt string

	// ModifiedAtUTC is the native-format last-modified timestamp in UTC
	ModifiedAtUTC string
}
