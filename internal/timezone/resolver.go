package timezone

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meetslot/meetslot-web/internal/meetslot"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

// CatalogFetcher fetches the canonical timezone catalog from the backend.
type CatalogFetcher interface {
	FetchTimezones(ctx context.Context) ([]meetslot.TimezoneEntry, error)
}

// Resolver supplies the invitee's default timezone guess and the timezone
// catalog. The catalog is fetched once and cached for the life of the
// process; Invalidate forces a refetch on the next Catalog call.
type Resolver struct {
	fetcher  CatalogFetcher
	logger   *logging.Logger
	fallback string
	// preferred identifiers are kept verbatim; a local zone outside this set
	// is replaced by the configured fallback.
	preferred map[string]struct{}

	mu      sync.Mutex
	catalog []meetslot.TimezoneEntry
	cached  bool

	// localZone overrides runtime zone detection in tests.
	localZone func() string
}

// NewResolver builds a Resolver. fallback must be a valid IANA identifier;
// preferred may be empty, in which case the local zone is always kept.
func NewResolver(fetcher CatalogFetcher, fallback string, preferred []string, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	pref := make(map[string]struct{}, len(preferred))
	for _, p := range preferred {
		pref[p] = struct{}{}
	}
	return &Resolver{
		fetcher:   fetcher,
		logger:    logger,
		fallback:  fallback,
		preferred: pref,
		localZone: runtimeZone,
	}
}

// ResolveDefault returns the timezone identifier the wizard should start
// with. It never fails: an unusable or non-preferred local zone yields the
// configured fallback identifier.
func (r *Resolver) ResolveDefault() string {
	zone := r.localZone()
	if zone == "" || zone == "Local" {
		return r.fallback
	}
	if len(r.preferred) == 0 {
		return zone
	}
	if _, ok := r.preferred[zone]; ok {
		return zone
	}
	return r.fallback
}

// Catalog returns the cached timezone catalog, fetching it on first use.
// On fetch failure the error is returned with an empty list — callers must
// offer an explicit retry, never synthesized data.
func (r *Resolver) Catalog(ctx context.Context) ([]meetslot.TimezoneEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached {
		return r.catalog, nil
	}

	zones, err := r.fetcher.FetchTimezones(ctx)
	if err != nil {
		r.logger.Warn("timezone catalog fetch failed", "error", err)
		return nil, fmt.Errorf("timezone: %w", err)
	}
	r.catalog = zones
	r.cached = true
	return r.catalog, nil
}

// Invalidate clears the cached catalog.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = nil
	r.cached = false
}

// runtimeZone reports the process-local IANA zone name.
func runtimeZone() string {
	return time.Now().Location().String()
}
