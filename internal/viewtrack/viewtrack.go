// Package viewtrack decides whether a post view counts toward the view
// counter. The rolling window of recently viewed posts is carried entirely
// in a client-side cookie; the server holds no per-client view state beyond
// the authoritative counter it gates.
package viewtrack

import "time"

const (
	// MaxEntries caps the cookie payload at the 100 most recent views.
	MaxEntries = 100
	// Window is the per-entry lifetime; a view of the same post inside the
	// window does not count again.
	Window = 24 * time.Hour
)

// ViewRecord is one entry of the client-held view list
type ViewRecord struct {
	PostID   int64     `json:"postId"`
	ViewedAt time.Time `json:"viewedAt"`
}

// ShouldCount prunes expired records, then reports whether viewing postID at
// now counts as a new view. The returned list is always the pruned (and, on a
// counting view, extended) list and must be written back to the client even
// when the view does not count, so the window stays self-cleaning.
func ShouldCount(records []ViewRecord, postID int64, now time.Time) (bool, []ViewRecord) {
	fresh := make([]ViewRecord, 0, len(records)+1)
	for _, r := range records {
		if now.Sub(r.ViewedAt) < Window {
			fresh = append(fresh, r)
		}
	}

	for _, r := range fresh {
		if r.PostID == postID {
			return false, fresh
		}
	}

	fresh = append(fresh, ViewRecord{PostID: postID, ViewedAt: now})
	if len(fresh) > MaxEntries {
		fresh = fresh[len(fresh)-MaxEntries:]
	}
	return true, fresh
}
