package sources

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
)

// jobdataLedgerFile persists the anonymous request timestamps next to
// the application logs
const jobdataLedgerFile = "logs/jobdata_ratelimit.json"

// Registry holds every source adapter keyed by display name, in the
// order searches run them. Sources with unconfigured keys stay
// registered and report Available() false.
type Registry struct {
	ordered []Source
	byName  map[string]Source
	free    []string
	apiKey  []string
}

// NewRegistry wires all adapters from configuration. A single throttled
// client is shared across providers; LinkedIn gets its own client so
// its longer delay does not slow everything else down.
func NewRegistry(config *common.Config, logger arbor.ILogger) *Registry {
	client := NewClient(config.Search.RequestTimeout, config.Search.RateLimitDelay, logger)
	linkedinClient := NewClient(config.Search.RequestTimeout, config.Sources.LinkedIn.Delay, logger)

	r := &Registry{byName: map[string]Source{}}

	// Free, no key needed
	r.register(true, NewRemoteOK(client, logger))
	r.register(true, NewArbeitnow(client, logger))
	r.register(true, NewTheMuse(client, logger))
	r.register(true, NewJobicy(client, logger))
	r.register(true, NewRemotive(client, logger))
	r.register(true, NewWeWorkRemotely(client, logger))
	r.register(true, NewWorkingNomads(client, logger))
	r.register(true, NewLobsters(client, logger))
	r.register(true, NewGreenhouse(client, config.Sources.Greenhouse.Boards, logger))
	r.register(true, NewLever(client, config.Sources.Lever.Boards, logger))
	r.register(true, NewAshby(client, config.Sources.Ashby.Boards, logger))
	r.register(true, NewWorkable(client, config.Sources.Workable.Boards, logger))
	r.register(true, NewJobsCollider(client, logger))
	r.register(true, NewDevITJobs(client, logger))
	r.register(true, NewHNHiring(client, logger))
	r.register(true, NewTotaljobs(client, logger))
	r.register(true, NewRemoteCo(client, logger))
	r.register(true, NewGovUKFindAJob(client, logger))
	r.register(true, NewLinkedInDirect(linkedinClient, &config.Sources.LinkedIn, logger))

	// Free API key required (JobData works without one under its
	// anonymous budget, but belongs with the keyed providers)
	r.register(false, NewAdzuna(client, &config.Sources.Adzuna, logger))
	r.register(false, NewReed(client, config.Sources.Reed.APIKey, logger))
	r.register(false, NewUSAJobs(client, &config.Sources.USAJobs, logger))
	r.register(false, NewJooble(client, config.Sources.Jooble.APIKey, logger))
	r.register(false, NewGoogleJobs(client, config.Sources.SerpAPI.APIKey, logger))
	r.register(false, NewFindwork(client, config.Sources.Findwork.APIKey, logger))
	r.register(false, NewCareerJet(client, config.Sources.CareerJet.AffID, logger))
	r.register(false, NewJobData(client, &config.Sources.JobData, jobdataLedgerFile, logger))

	return r
}

func (r *Registry) register(free bool, source Source) {
	r.ordered = append(r.ordered, source)
	r.byName[source.Name()] = source
	if free {
		r.free = append(r.free, source.Name())
	} else {
		r.apiKey = append(r.apiKey, source.Name())
	}
}

// Get returns the source registered under name
func (r *Registry) Get(name string) (Source, bool) {
	source, ok := r.byName[name]
	return source, ok
}

// All returns every source in registration order
func (r *Registry) All() []Source {
	return r.ordered
}

// Names returns every source name in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, source := range r.ordered {
		names = append(names, source.Name())
	}
	return names
}

// FreeNames returns the sources usable without credentials
func (r *Registry) FreeNames() []string {
	return r.free
}

// APIKeyNames returns the sources that want credentials configured
func (r *Registry) APIKeyNames() []string {
	return r.apiKey
}
