package scope

import "gorm.io/gorm"

// Caller identifies the authenticated user for visibility decisions. Sub is
// the user id; Name is the display name. assignedTo fields may hold either,
// so both are matched.
type Caller struct {
	Sub  string
	Role string
	Name string
}

// IsAdmin reports whether the caller sees everything.
func (c Caller) IsAdmin() bool {
	return c.Role == "Admin"
}

// CanSee reports whether a record with the given assignedTo value is visible
// to the caller. Comparison is exact string equality against either the
// caller's id or display name.
func (c Caller) CanSee(assignedTo string) bool {
	if c.IsAdmin() {
		return true
	}
	return assignedTo == c.Sub || assignedTo == c.Name
}

// Apply narrows a query to records assigned to the caller. Admin callers get
// the query back unchanged. Records the caller cannot see are silently
// omitted, never reported as errors.
func Apply(q *gorm.DB, c Caller) *gorm.DB {
	if c.IsAdmin() {
		return q
	}
	return q.Where("assigned_to = ? OR assigned_to = ?", c.Sub, c.Name)
}
