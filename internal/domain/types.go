package domain

import "errors"

// Location is an opaque reference to where image data lives. The gallery never
// inspects it.
type Location string

// Gallery is the ordered sequence of locations. Insertion order is display order.
type Gallery []Location

// Clone returns a copy that shares no backing array with g.
func (g Gallery) Clone() Gallery {
	out := make(Gallery, len(g))
	copy(out, g)
	return out
}

// Strings returns the locations as plain strings, in order.
func (g Gallery) Strings() []string {
	out := make([]string, len(g))
	for i, loc := range g {
		out[i] = string(loc)
	}
	return out
}

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps a configured access policy to a Permission. Anything
// other than "denied" grants access.
func ParsePermission(s string) Permission {
	if s == string(PermissionDenied) {
		return PermissionDenied
	}
	return PermissionGranted
}

// Result is what a camera or media-library capability hands back: either a
// cancellation or the location of the produced image.
type Result struct {
	Cancelled bool
	Location  Location
}

// Notice is a one-shot message shown to the user.
type Notice struct {
	Title   string
	Message string
}

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNoResult         = errors.New("no image produced")
	ErrPersistenceRead  = errors.New("failed to read gallery")
	ErrPersistenceWrite = errors.New("failed to write gallery")
)
