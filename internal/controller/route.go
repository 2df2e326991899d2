package controller

import "strings"

// Route is the active view filter.
type Route string

const (
	All       Route = "All"
	Active    Route = "Active"
	Completed Route = "Completed"
)

// ParseRoute reads the segment after the first "/" of a location hash such as
// "#/", "#/active" or "#/completed". Empty and unknown segments map to All.
func ParseRoute(hash string) Route {
	_, seg, _ := strings.Cut(hash, "/")
	seg, _, _ = strings.Cut(seg, "/")
	switch strings.ToLower(strings.TrimSpace(seg)) {
	case "active":
		return Active
	case "completed":
		return Completed
	default:
		return All
	}
}

// Hash is the location hash that selects r.
func (r Route) Hash() string {
	switch r {
	case Active:
		return "#/active"
	case Completed:
		return "#/completed"
	default:
		return "#/"
	}
}
