package catalog

import "time"

// Status is the review state of an asset.
type Status string

const (
	// StatusUnreviewed is the initial state of a freshly registered asset.
	StatusUnreviewed Status = "unreviewed"
	// StatusReviewed marks an asset the user has looked at.
	StatusReviewed Status = "reviewed"
)

// Valid reports whether s is a known review status.
func (s Status) Valid() bool {
	return s == StatusUnreviewed || s == StatusReviewed
}

// Asset is one indexed video file.
type Asset struct {
	// ID is assigned at first registration and never changes.
	ID string `json:"id"`
	// RelativePath is the video file's path relative to the library root,
	// forward slashes, no leading slash. Unique within a library.
	RelativePath string `json:"relativePath"`
	// FileName is the last path component, display-only.
	FileName  string    `json:"fileName"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	// Tags is an ordered list of "actor:<name>" / "tag:<name>" strings.
	Tags []string `json:"tags"`
}
