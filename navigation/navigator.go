// Package navigation implements the explorer's navigation state machine:
// country view, state view (constituencies or districts), and the drill-down
// into a PC's or district's assemblies. Booth and assembly selection for
// result display sit on top of this machine without changing its state.
package navigation

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/politic-in/atlas/aliases"
	"github.com/politic-in/atlas/geodata"
	"github.com/politic-in/atlas/normalize"
	"github.com/politic-in/atlas/schema"
	"github.com/politic-in/atlas/types"
)

// View is the active presentation of a selected state.
type View string

const (
	ViewConstituencies View = "constituencies"
	ViewDistricts      View = "districts"
	ViewAssemblies     View = "assemblies"
)

// DefaultView is the view entered when a state is first selected.
const DefaultView = ViewConstituencies

// minPrefixLen is the shortest string length at which a bidirectional
// prefix comparison is accepted in PC-to-assembly matching.
const minPrefixLen = 10

// State is the machine's current position. At most one of PC and District
// is non-empty at any time; Assembly is an orthogonal selection that never
// drives transitions.
type State struct {
	StateName string
	StateID   string
	View      View
	PC        string
	District  string
	Assembly  string
}

// Selected reports whether a state is currently selected.
func (s State) Selected() bool {
	return s.StateName != ""
}

// Navigator runs transitions against the geo loader and schema resolver.
// Each data-bearing transition fetches fresh payloads and threads them
// through return values; an internal epoch counter discards results of
// transitions that were superseded before their fetch resolved.
type Navigator struct {
	schema *schema.Resolver
	geo    *geodata.Loader
	logger *zap.Logger

	mu    sync.RWMutex
	epoch uint64
	cur   State
}

// NewNavigator creates a navigator in the country view.
func NewNavigator(resolver *schema.Resolver, geo *geodata.Loader, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		schema: resolver,
		geo:    geo,
		logger: logger,
		cur:    State{View: DefaultView},
	}
}

// Current returns a copy of the machine's state.
func (n *Navigator) Current() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cur
}

// NavigateToState selects a state by free-text name and returns the
// boundary features for its entry view. When the loaded dataset has zero
// parliamentary constituencies for the state, the machine transitions to
// the district view instead and returns district features; this fallback
// covers states whose PC boundaries are absent from older vintages.
func (n *Navigator) NavigateToState(ctx context.Context, name string) (*types.FeatureCollection, error) {
	token := n.begin()

	stateID := n.resolveState(name)

	pcs, err := n.geo.ParliamentaryConstituencies(ctx)
	if err != nil {
		n.logger.Warn("state navigation: PC load failed",
			zap.String("state", name), zap.Error(err))
		return nil, err
	}

	matched := filterByState(pcs, name, stateID)
	if len(matched.Features) > 0 {
		n.commit(token, State{
			StateName: name,
			StateID:   stateID,
			View:      ViewConstituencies,
		})
		return matched, nil
	}

	if stateID == "" {
		return nil, fmt.Errorf("%w: state %q", types.ErrStateNotFound, name)
	}

	districts, err := n.geo.Districts(ctx, stateID)
	if err != nil {
		n.logger.Warn("state navigation: district fallback load failed",
			zap.String("state", name), zap.String("stateId", stateID), zap.Error(err))
		return nil, err
	}

	n.commit(token, State{
		StateName: name,
		StateID:   stateID,
		View:      ViewDistricts,
	})
	return districts, nil
}

// NavigateToPC selects a parliamentary constituency within the current or
// named state and returns the assembly features belonging to it. The match
// ladder against each assembly's parent-PC name: exact canonical, then
// reservation-suffix stripped, then parenthetical stripped, then a
// bidirectional prefix accepted only when the shorter side is at least
// minPrefixLen characters. Clears any district selection.
func (n *Navigator) NavigateToPC(ctx context.Context, pcName, stateName string) (*types.FeatureCollection, error) {
	token := n.begin()

	stateID := n.resolveState(stateName)

	acs, err := n.geo.Assemblies(ctx)
	if err != nil {
		n.logger.Warn("PC navigation: assembly load failed",
			zap.String("pc", pcName), zap.Error(err))
		return nil, err
	}

	matched := &types.FeatureCollection{Type: "FeatureCollection"}
	for _, f := range acs.Features {
		if !inState(f, stateName, stateID) {
			continue
		}
		if pcNamesMatch(pcName, f.Props.PCName) {
			matched.Features = append(matched.Features, f)
		}
	}
	if len(matched.Features) == 0 {
		return nil, fmt.Errorf("%w: PC %q in %q", types.ErrPCNotFound, pcName, stateName)
	}

	n.commit(token, State{
		StateName: stateName,
		StateID:   stateID,
		View:      ViewAssemblies,
		PC:        pcName,
	})
	return matched, nil
}

// NavigateToDistrict selects a district and returns its assembly features.
// Matching strips everything but letters and digits from both sides after
// substituting historical district renames, so punctuation and spacing
// drift across sources never causes a miss. Clears any PC selection.
func (n *Navigator) NavigateToDistrict(ctx context.Context, districtName, stateName string) (*types.FeatureCollection, error) {
	token := n.begin()

	stateID := n.resolveState(stateName)

	acs, err := n.geo.Assemblies(ctx)
	if err != nil {
		n.logger.Warn("district navigation: assembly load failed",
			zap.String("district", districtName), zap.Error(err))
		return nil, err
	}

	want := normalize.AlphaNum(aliases.DistrictRename(stateID, districtName))
	matched := &types.FeatureCollection{Type: "FeatureCollection"}
	for _, f := range acs.Features {
		if !inState(f, stateName, stateID) {
			continue
		}
		got := normalize.AlphaNum(aliases.DistrictRename(stateID, f.Props.DistrictName))
		if got != "" && got == want {
			matched.Features = append(matched.Features, f)
		}
	}
	if len(matched.Features) == 0 {
		return nil, fmt.Errorf("%w: district %q in %q", types.ErrDistrictNotFound, districtName, stateName)
	}

	n.commit(token, State{
		StateName: stateName,
		StateID:   stateID,
		View:      ViewAssemblies,
		District:  districtName,
	})
	return matched, nil
}

// SwitchView changes the active view of the selected state and clears all
// drill-down selection. No-op when no state is selected.
func (n *Navigator) SwitchView(v View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.cur.Selected() {
		return
	}
	n.epoch++
	n.cur.View = v
	n.cur.PC = ""
	n.cur.District = ""
	n.cur.Assembly = ""
}

// ResetView returns the machine to the country view, clearing everything.
func (n *Navigator) ResetView() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.epoch++
	n.cur = State{View: DefaultView}
}

// GoBackToState clears drill-down selection, keeping state and view.
func (n *Navigator) GoBackToState() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.epoch++
	n.cur.PC = ""
	n.cur.District = ""
	n.cur.Assembly = ""
}

// SelectAssembly records an assembly selection for result display. This is
// layered on top of the machine and does not change view or clear anything.
func (n *Navigator) SelectAssembly(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur.Assembly = name
}

// Boot runs the startup load sequence strictly in order: schema, state
// boundaries, PC boundaries, assembly boundaries, then the concurrent
// per-state district preload. Later steps depend on alias tables built by
// earlier ones, so the order is load-bearing.
func (n *Navigator) Boot(ctx context.Context) error {
	if err := n.schema.Load(ctx); err != nil {
		return err
	}
	if _, err := n.geo.States(ctx); err != nil {
		return err
	}
	if _, err := n.geo.ParliamentaryConstituencies(ctx); err != nil {
		return err
	}
	if _, err := n.geo.Assemblies(ctx); err != nil {
		return err
	}
	n.geo.PreloadDistricts(ctx, n.schema.StateIDs())
	return nil
}

// begin bumps the epoch and returns a token identifying this transition.
func (n *Navigator) begin() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.epoch++
	return n.epoch
}

// commit installs the next state unless a later transition has started,
// in which case the superseded result is dropped.
func (n *Navigator) commit(token uint64, next State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.epoch != token {
		return
	}
	n.cur = next
}

// resolveState maps a free-text state name to its canonical ID, through the
// schema when ready and the static alias table otherwise.
func (n *Navigator) resolveState(name string) string {
	if n.schema != nil && n.schema.Ready() {
		if id := n.schema.ResolveStateName(name); id != "" {
			return id
		}
	}
	return aliases.StateIDForAlias(name)
}

// inState reports whether a feature belongs to the named state, comparing
// canonical IDs when both sides resolve and canonical name keys otherwise.
func inState(f types.Feature, stateName, stateID string) bool {
	fs := f.Props.StateName
	if fs == "" {
		return false
	}
	if stateID != "" {
		if fid := aliases.StateIDForAlias(fs); fid != "" {
			return fid == stateID
		}
	}
	return normalize.Key(fs) == normalize.Key(stateName)
}

// filterByState returns the subset of features belonging to the named state.
func filterByState(fc *types.FeatureCollection, stateName, stateID string) *types.FeatureCollection {
	out := &types.FeatureCollection{Type: "FeatureCollection"}
	for _, f := range fc.Features {
		if inState(f, stateName, stateID) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

// pcNamesMatch runs the PC name ladder used to attach assemblies to their
// parent constituency across vintages with inconsistent styling.
func pcNamesMatch(query, candidate string) bool {
	if candidate == "" {
		return false
	}
	q := normalize.Key(query)
	c := normalize.Key(candidate)
	if q == "" || c == "" {
		return false
	}
	if q == c {
		return true
	}
	qs := normalize.Key(normalize.StripReservationSuffix(query))
	cs := normalize.Key(normalize.StripReservationSuffix(candidate))
	if qs == cs {
		return true
	}
	qp := normalize.Key(normalize.StripParens(query))
	cp := normalize.Key(normalize.StripParens(candidate))
	if qp == cp {
		return true
	}
	return prefixMatch(qp, cp)
}

// prefixMatch accepts one name being a prefix of the other, but only when
// the shorter side is long enough to make a coincidental prefix unlikely.
func prefixMatch(a, b string) bool {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < minPrefixLen {
		return false
	}
	return len(longer) >= len(shorter) && longer[:len(shorter)] == shorter
}
