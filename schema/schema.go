// Package schema loads the canonical entity schema document and resolves
// free-text names to canonical IDs through precomputed composite-key
// indices. Once the schema is available this is the only sanctioned
// resolution path: lookups are exact (plus a single reservation-suffix
// retry for ACs) and similarity scoring is deliberately not offered here.
// Fuzzy matching is confined to the legacy path in legacy-match.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/politic-in/atlas/aliases"
	"github.com/politic-in/atlas/normalize"
	"github.com/politic-in/atlas/types"
)

// DocumentPath is the well-known location of the schema document.
const DocumentPath = "schema/entities.json"

// Fetcher retrieves a raw payload by path. Satisfied by geodata.HTTPFetcher
// and geodata.FileFetcher.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Indices are the precomputed name-to-ID lookup maps shipped inside the
// schema document. PC, AC and district keys are composite:
// "{canonical key}|{stateID}".
type Indices struct {
	StateByName    map[string]string `json:"stateByName"`
	PCByName       map[string]string `json:"pcByName"`
	ACByName       map[string]string `json:"acByName"`
	DistrictByName map[string]string `json:"districtByName"`
}

// Document is the fetched canonical schema: full entity records keyed by ID
// plus the name indices.
type Document struct {
	Version                     string                           `json:"version"`
	States                      map[string]*types.StateEntity    `json:"states"`
	ParliamentaryConstituencies map[string]*types.PCEntity       `json:"parliamentaryConstituencies"`
	AssemblyConstituencies      map[string]*types.ACEntity       `json:"assemblyConstituencies"`
	Districts                   map[string]*types.DistrictEntity `json:"districts"`
	Indices                     Indices                          `json:"indices"`
}

// Resolver answers name-to-ID and ID-to-record lookups against a loaded
// schema document. All lookups are O(1) and side-effect free; before Load
// completes every lookup reports not-found.
type Resolver struct {
	fetcher Fetcher
	path    string

	// loadMu serializes Load; mu guards the readable state. Keeping them
	// separate means lookups degrade to not-found while a fetch is in
	// flight instead of blocking on it.
	loadMu sync.Mutex

	mu    sync.RWMutex
	ready bool
	doc   *Document

	stateByName    map[string]string
	pcByName       map[string]string
	acByName       map[string]string
	districtByName map[string]string
}

// NewResolver creates a resolver that will fetch the schema document from
// the well-known path.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher, path: DocumentPath}
}

// Load fetches and indexes the schema document. The fetch happens once per
// resolver lifetime; later calls are no-ops. A failed load leaves the
// resolver not ready and may be retried by the caller.
func (r *Resolver) Load(ctx context.Context) error {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	if r.Ready() {
		return nil
	}

	data, err := r.fetcher.Fetch(ctx, r.path)
	if err != nil {
		return fmt.Errorf("%w: schema document: %v", types.ErrFetchFailed, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: schema document: %v", types.ErrInvalidJSON, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = &doc
	r.buildIndicesLocked()
	r.ready = true
	return nil
}

// buildIndicesLocked copies the document's precomputed indices and then
// folds in each entity's name and alias list, so partially-indexed schema
// versions still resolve (must hold lock).
func (r *Resolver) buildIndicesLocked() {
	r.stateByName = make(map[string]string, len(r.doc.Indices.StateByName)+len(r.doc.States))
	r.pcByName = make(map[string]string, len(r.doc.Indices.PCByName))
	r.acByName = make(map[string]string, len(r.doc.Indices.ACByName))
	r.districtByName = make(map[string]string, len(r.doc.Indices.DistrictByName))

	for k, id := range r.doc.Indices.StateByName {
		r.stateByName[normalize.Key(k)] = id
	}
	for k, id := range r.doc.Indices.PCByName {
		r.pcByName[compositeFromRaw(k)] = id
	}
	for k, id := range r.doc.Indices.ACByName {
		r.acByName[compositeFromRaw(k)] = id
	}
	for k, id := range r.doc.Indices.DistrictByName {
		r.districtByName[compositeFromRaw(k)] = id
	}

	for id, st := range r.doc.States {
		indexName(r.stateByName, st.Name, id)
		for _, a := range st.Aliases {
			indexName(r.stateByName, a, id)
		}
	}
	for id, pc := range r.doc.ParliamentaryConstituencies {
		indexComposite(r.pcByName, pc.Name, pc.StateID, id)
		for _, a := range pc.Aliases {
			indexComposite(r.pcByName, a, pc.StateID, id)
		}
	}
	for id, ac := range r.doc.AssemblyConstituencies {
		if ac.IsPlaceholder() {
			continue
		}
		indexComposite(r.acByName, ac.Name, ac.StateID, id)
		// Index both with and without the reservation suffix.
		indexComposite(r.acByName, normalize.StripReservationSuffix(ac.Name), ac.StateID, id)
		for _, a := range ac.Aliases {
			indexComposite(r.acByName, a, ac.StateID, id)
		}
	}
	for id, d := range r.doc.Districts {
		indexComposite(r.districtByName, d.Name, d.StateID, id)
		for _, a := range d.Aliases {
			indexComposite(r.districtByName, a, d.StateID, id)
		}
	}
}

func indexName(idx map[string]string, name, id string) {
	key := normalize.Key(name)
	if key == "" {
		return
	}
	if _, exists := idx[key]; !exists {
		idx[key] = id
	}
}

func indexComposite(idx map[string]string, name, stateID, id string) {
	key := normalize.Key(name)
	if key == "" {
		return
	}
	composite := key + "|" + stateID
	if _, exists := idx[composite]; !exists {
		idx[composite] = id
	}
}

// compositeFromRaw re-normalizes the name half of a precomputed composite
// key so that index and query always agree on the canonical form.
func compositeFromRaw(raw string) string {
	for i := len(raw) - 1; i >= 0; i-- {
		if raw[i] == '|' {
			return normalize.Key(raw[:i]) + raw[i:]
		}
	}
	return normalize.Key(raw)
}

// Ready reports whether the schema document has been loaded. Callers must
// check this before relying on resolution results for critical paths.
func (r *Resolver) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Version returns the loaded schema document version, or "" if not ready.
func (r *Resolver) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return ""
	}
	return r.doc.Version
}

// StateIDs returns the canonical IDs of every state and UT in the loaded
// document, sorted. Empty until Ready.
func (r *Resolver) StateIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil
	}
	ids := make([]string, 0, len(r.doc.States))
	for id := range r.doc.States {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveStateName resolves a free-text state name to its canonical ID.
// Returns "" when unknown or when the schema is not ready.
func (r *Resolver) ResolveStateName(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return ""
	}
	if id, ok := r.stateByName[normalize.Key(name)]; ok {
		return id
	}
	// Static variant table covers legacy names the schema predates.
	if id := aliases.StateIDForAlias(name); id != "" {
		if _, known := r.doc.States[id]; known {
			return id
		}
	}
	return ""
}

// ResolvePCName resolves a parliamentary constituency name within a state.
func (r *Resolver) ResolvePCName(name, stateID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return ""
	}
	return r.pcByName[normalize.Key(name)+"|"+stateID]
}

// ResolveACName resolves an assembly constituency name within a state. The
// full name is tried first; on a miss the trailing reservation parenthetical
// is stripped and the lookup retried. That retry is the only fallback this
// resolver performs.
func (r *Resolver) ResolveACName(name, stateID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return ""
	}
	if id, ok := r.acByName[normalize.Key(name)+"|"+stateID]; ok {
		return id
	}
	stripped := normalize.StripReservationSuffix(name)
	if stripped == name {
		return ""
	}
	return r.acByName[normalize.Key(stripped)+"|"+stateID]
}

// ResolveDistrictName resolves a district name within a state.
func (r *Resolver) ResolveDistrictName(name, stateID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return ""
	}
	return r.districtByName[normalize.Key(name)+"|"+stateID]
}

// State returns the full record for a state ID.
func (r *Resolver) State(id string) (*types.StateEntity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil, false
	}
	st, ok := r.doc.States[id]
	return st, ok
}

// PC returns the full record for a parliamentary constituency ID.
func (r *Resolver) PC(id string) (*types.PCEntity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil, false
	}
	pc, ok := r.doc.ParliamentaryConstituencies[id]
	return pc, ok
}

// AC returns the full record for an assembly constituency ID. Placeholder
// records are never surfaced.
func (r *Resolver) AC(id string) (*types.ACEntity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil, false
	}
	ac, ok := r.doc.AssemblyConstituencies[id]
	if !ok || ac.IsPlaceholder() {
		return nil, false
	}
	return ac, ok
}

// District returns the full record for a district ID.
func (r *Resolver) District(id string) (*types.DistrictEntity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil, false
	}
	d, ok := r.doc.Districts[id]
	return d, ok
}

// AssembliesForPC returns the non-placeholder AC records owned by a PC.
func (r *Resolver) AssembliesForPC(pcID string) []*types.ACEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil
	}
	pc, ok := r.doc.ParliamentaryConstituencies[pcID]
	if !ok {
		return nil
	}
	return r.collectACsLocked(pc.AssemblyIDs)
}

// AssembliesForDistrict returns the non-placeholder AC records owned by a
// district.
func (r *Resolver) AssembliesForDistrict(districtID string) []*types.ACEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil
	}
	d, ok := r.doc.Districts[districtID]
	if !ok {
		return nil
	}
	return r.collectACsLocked(d.AssemblyIDs)
}

func (r *Resolver) collectACsLocked(ids []string) []*types.ACEntity {
	acs := make([]*types.ACEntity, 0, len(ids))
	for _, id := range ids {
		if ac, ok := r.doc.AssemblyConstituencies[id]; ok && !ac.IsPlaceholder() {
			acs = append(acs, ac)
		}
	}
	return acs
}
