package models

// Note is a free-standing user note, independent of any job
type Note struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	BodyHTML  string `json:"body_html,omitempty"` // Rendered markdown, not stored
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SavedSearch stores a named search configuration. Params is an opaque
// JSON payload preserving whatever the client sent.
type SavedSearch struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Params    string `json:"params"`
	AutoRun   bool   `json:"auto_run"` // Included in scheduled re-runs
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
