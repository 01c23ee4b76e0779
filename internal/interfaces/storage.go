package interfaces

import (
	"github.com/ternarybob/venari/internal/models"
)

// JobSearchOptions carries the storage-level search filters
type JobSearchOptions struct {
	Query                string
	Source               string
	Remote               string
	JobType              string
	SalaryMin            *float64
	PostedInLastDays     int
	SortBy               string
	Ascending            bool
	ExcludeNotInterested bool
	Region               string
}

// JobStatus is the bulk triage decoration for one job
type JobStatus struct {
	IsFavourite     bool `json:"is_favourite"`
	IsApplied       bool `json:"is_applied"`
	IsNotInterested bool `json:"is_not_interested"`
}

// JobStorage persists normalised job records
type JobStorage interface {
	SaveJobs(jobs []*models.Job) (int, error)
	Search(opts JobSearchOptions) ([]map[string]interface{}, error)
	GetJob(jobID string) (map[string]interface{}, error)
	GetJobStatuses(jobIDs []string) (map[string]JobStatus, error)
	GetSources() ([]string, error)
	GetStats() (map[string]interface{}, error)
	ExportCSV() (string, error)
}

// TriageStorage manages the favourite/applied/not-interested sidebands
type TriageStorage interface {
	AddFavourite(jobID string) (bool, error)
	RemoveFavourite(jobID string) (bool, error)
	IsFavourite(jobID string) (bool, error)
	GetFavourites(sortBy string, ascending bool) ([]map[string]interface{}, error)
	GetFavouriteIDs() (map[string]bool, error)

	AddApplication(jobID, notes string) (bool, error)
	RemoveApplication(jobID string) (bool, error)
	IsApplied(jobID string) (bool, error)
	UpdateApplicationNotes(jobID, notes string) (bool, error)
	GetApplications(sortBy string, ascending bool) ([]map[string]interface{}, error)
	GetApplicationIDs() (map[string]bool, error)

	AddNotInterested(jobID string) (bool, error)
	RemoveNotInterested(jobID string) (bool, error)
	GetNotInterestedIDs() (map[string]bool, error)
}

// NoteStorage manages free-standing notes
type NoteStorage interface {
	CreateNote(title, body string) (*models.Note, error)
	GetNote(id int64) (*models.Note, error)
	ListNotes(query string) ([]*models.Note, error)
	UpdateNote(id int64, title, body string) (*models.Note, error)
	DeleteNote(id int64) (bool, error)
}

// SavedSearchStorage manages named search configurations. The board flag
// selects between the search-page table and the board-page table.
type SavedSearchStorage interface {
	ListSavedSearches(board bool) ([]*models.SavedSearch, error)
	GetSavedSearch(board bool, id int64) (*models.SavedSearch, error)
	CreateSavedSearch(board bool, name, params string, autoRun bool) (*models.SavedSearch, error)
	UpdateSavedSearch(board bool, id int64, name, params string, autoRun bool) (*models.SavedSearch, error)
	DeleteSavedSearch(board bool, id int64) (bool, error)
	ListAutoRunSearches() ([]*models.SavedSearch, error)
}

// PromptStorage manages candidate-profile prompts
type PromptStorage interface {
	ListPrompts() ([]*models.Prompt, error)
	GetPrompt(id int64) (*models.Prompt, error)
	GetActivePrompt() (*models.Prompt, error)
	CreatePrompt(p *models.Prompt) (*models.Prompt, error)
	UpdatePrompt(id int64, p *models.Prompt) (*models.Prompt, error)
	DeletePrompt(id int64) (bool, error)
	SetActivePrompt(id int64) (bool, error)
}

// AnalysisListOptions filters the analyses listing
type AnalysisListOptions struct {
	Query           string
	MinScore        int
	Recommendations []string
	PromptID        int64
	Limit           int
	Offset          int
}

// AnalysisStorage persists per-(job, prompt) analysis results
type AnalysisStorage interface {
	SaveAnalysis(jobID string, promptID int64, model, result string) (int64, error)
	GetAnalysesForJob(jobID string) ([]map[string]interface{}, error)
	ListAnalyses(opts AnalysisListOptions) ([]map[string]interface{}, int, error)
}

// StorageManager vends the individual storage services
type StorageManager interface {
	JobStorage() JobStorage
	TriageStorage() TriageStorage
	NoteStorage() NoteStorage
	SavedSearchStorage() SavedSearchStorage
	PromptStorage() PromptStorage
	AnalysisStorage() AnalysisStorage
	Close() error
}
