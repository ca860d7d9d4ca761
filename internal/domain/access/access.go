package access

// Record tracks course-area visits, one document per user keyed by their id
// in the "course_access" collection. FirstAccessAt is written exactly once;
// LastAccessAt refreshes on every visit.
type Record struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstAccessAt string `json:"first_access_at,omitempty"`
	LastAccessAt  string `json:"last_access_at,omitempty"`
}
