package models

// Prompt is a stored candidate profile used to drive job analyses.
// At most one prompt is active at a time.
type Prompt struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Model        string `json:"model"` // Target LLM ID, optionally prefixed with a routing sentinel
	CV           string `json:"cv"`
	AboutMe      string `json:"about_me"`
	Preferences  string `json:"preferences"`
	ExtraContext string `json:"extra_context"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Analysis is one LLM analysis result for a (job, prompt) pair
type Analysis struct {
	ID        int64  `json:"id"`
	JobID     string `json:"job_id"`
	PromptID  int64  `json:"prompt_id"`
	Model     string `json:"model"`
	Result    string `json:"result"` // JSON document conforming to the analysis schema
	CreatedAt string `json:"created_at"`
}

// Recommendation values allowed in an analysis result
var ValidRecommendations = map[string]bool{
	"apply": true,
	"maybe": true,
	"skip":  true,
}
