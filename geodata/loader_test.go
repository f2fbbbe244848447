package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/politic-in/atlas/cache"
	"github.com/politic-in/atlas/types"
)

// fakeFetcher serves canned payloads by path and counts fetches.
type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	calls    map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{payloads: make(map[string][]byte), calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	data, ok := f.payloads[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, path)
	}
	return data, nil
}

func (f *fakeFetcher) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

const geom = `{"type":"Polygon","coordinates":[[[80.2,13.1],[80.3,13.1],[80.3,13.2],[80.2,13.1]]]}`

func wrappedStates() []byte {
	return []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"ST_NAME":"Tamil Nadu"},"geometry":` + geom + `},
		{"type":"Feature","properties":{"state_ut_name":"Kerala"},"geometry":` + geom + `}
	]}`)
}

func bareAssemblies() []byte {
	return []byte(`[
		{"type":"Feature","properties":{"AC_NAME":"Villivakkam","AC_NO":11,"ST_NAME":"Tamil Nadu"},"geometry":` + geom + `},
		{"type":"Feature","properties":{"AC_NAME":"","AC_NO":12,"ST_NAME":"Tamil Nadu"},"geometry":` + geom + `},
		{"type":"Feature","properties":{"AC_NAME":"No Geometry AC","AC_NO":13}}
	]`)
}

func newTestLoader(f Fetcher) (*Loader, *cache.TwoTier) {
	c := cache.New(nil, nil)
	return NewLoader(f, c, nil), c
}

func TestLoader_States_WrappedForm(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.payloads[StatesPath] = wrappedStates()
	l, _ := newTestLoader(f)

	fc, err := l.States(ctx)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fc.Features))
	}
	// Vintage property names land in the canonical shape.
	if fc.Features[0].Props.StateName != "Tamil Nadu" {
		t.Errorf("feature 0 state = %q", fc.Features[0].Props.StateName)
	}
	if fc.Features[1].Props.StateName != "Kerala" {
		t.Errorf("feature 1 state = %q", fc.Features[1].Props.StateName)
	}
}

func TestLoader_Assemblies_BareFormAndFiltering(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.payloads[AssembliesPath] = bareAssemblies()
	l, _ := newTestLoader(f)

	fc, err := l.Assemblies(ctx)
	if err != nil {
		t.Fatalf("Assemblies: %v", err)
	}
	// The placeholder (empty AC name) and the geometry-less feature are
	// both dropped.
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}
	if fc.Features[0].Props.ACName != "Villivakkam" {
		t.Errorf("kept feature = %q", fc.Features[0].Props.ACName)
	}
}

func TestLoader_CacheReadThrough(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.payloads[StatesPath] = wrappedStates()
	l, _ := newTestLoader(f)

	first, err := l.States(ctx)
	if err != nil {
		t.Fatalf("first States: %v", err)
	}
	second, err := l.States(ctx)
	if err != nil {
		t.Fatalf("second States: %v", err)
	}

	if got := f.callCount(StatesPath); got != 1 {
		t.Errorf("fetch calls = %d, want exactly 1", got)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("second load differs from first")
	}

	// The cache-served read must keep the adapted properties; the stored
	// canonical form is itself a decodable vintage.
	if len(second.Features) != len(first.Features) {
		t.Fatalf("cache-warm features = %d, want %d", len(second.Features), len(first.Features))
	}
	for i, feat := range second.Features {
		if feat.Props.StateName == "" {
			t.Errorf("cache-warm feature %d lost its properties", i)
		}
	}
}

func TestLoader_CorruptCacheEntryRefetched(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.payloads[StatesPath] = wrappedStates()
	l, c := newTestLoader(f)

	c.Put(ctx, KeyStates, []byte("{not json"))

	fc, err := l.States(ctx)
	if err != nil {
		t.Fatalf("States with corrupt cache: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Errorf("features = %d, want 2 after refetch", len(fc.Features))
	}
	if got := f.callCount(StatesPath); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestLoader_SelfHealsPrefilteredCache(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	l, c := newTestLoader(f)

	// A cache populated by a version that did not filter placeholders.
	c.Put(ctx, KeyAssemblies, bareAssemblies())

	fc, err := l.Assemblies(ctx)
	if err != nil {
		t.Fatalf("Assemblies: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1 after re-filter", len(fc.Features))
	}
	// No network fetch happened; the healed payload was rewritten in place.
	if got := f.callCount(AssembliesPath); got != 0 {
		t.Errorf("fetch calls = %d, want 0", got)
	}
	data, ok := c.Get(ctx, KeyAssemblies)
	if !ok {
		t.Fatal("healed entry missing from cache")
	}
	var healed types.FeatureCollection
	if err := json.Unmarshal(data, &healed); err != nil {
		t.Fatalf("healed entry corrupt: %v", err)
	}
	if len(healed.Features) != 1 {
		t.Errorf("persisted features = %d, want 1", len(healed.Features))
	}
}

func TestLoader_FetchFailurePropagates(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(newFakeFetcher())

	if _, err := l.Districts(ctx, "TN"); err == nil {
		t.Fatal("Districts succeeded with no payload")
	}
}

func TestLoader_PreloadDistrictsToleratesFailures(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.payloads[DistrictsPath("TN")] = wrappedStates()
	l, c := newTestLoader(f)

	// KL has no file; the batch must still complete and cache TN.
	l.PreloadDistricts(ctx, []string{"TN", "KL"})

	if _, ok := c.Get(ctx, DistrictsKey("TN")); !ok {
		t.Error("TN districts not cached by preload")
	}
	if _, ok := c.Get(ctx, DistrictsKey("KL")); ok {
		t.Error("KL cached despite missing payload")
	}
}

func TestDistrictsPathAndKey(t *testing.T) {
	if got := DistrictsPath("TN"); got != "districts/TN.json" {
		t.Errorf("DistrictsPath = %q", got)
	}
	if got := DistrictsKey("TN"); got != "geo_districts_TN" {
		t.Errorf("DistrictsKey = %q", got)
	}
}
