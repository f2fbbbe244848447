package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/politic-in/atlas/cache"
	"github.com/politic-in/atlas/types"
)

// Well-known payload paths
const (
	StatesPath     = "boundaries/states.json"
	PCPath         = "boundaries/parliamentary.json"
	AssembliesPath = "boundaries/assembly.json"
)

// Cache keys. Static keys for the single canonical payloads, templated per
// state for district files.
const (
	KeyStates       = "geo_boundaries_states"
	KeyPCs          = "geo_constituencies_pc"
	KeyAssemblies   = "geo_constituencies_ac"
	keyDistrictsFmt = "geo_districts_%s"
)

// DistrictsPath returns the per-state district payload path.
func DistrictsPath(stateID string) string {
	return fmt.Sprintf("districts/%s.json", stateID)
}

// DistrictsKey returns the per-state district cache key.
func DistrictsKey(stateID string) string {
	return fmt.Sprintf(keyDistrictsFmt, stateID)
}

// Loader is the fetch-or-cache orchestrator for geographic payloads.
type Loader struct {
	fetcher Fetcher
	cache   *cache.TwoTier
	logger  *zap.Logger
}

// NewLoader creates a loader over a fetcher and a two-tier cache.
func NewLoader(fetcher Fetcher, c *cache.TwoTier, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, cache: c, logger: logger}
}

// States loads the national state-boundary payload, cache-checked first.
func (l *Loader) States(ctx context.Context) (*types.FeatureCollection, error) {
	return l.load(ctx, KeyStates, StatesPath, false)
}

// ParliamentaryConstituencies loads the national PC boundary payload.
func (l *Loader) ParliamentaryConstituencies(ctx context.Context) (*types.FeatureCollection, error) {
	return l.load(ctx, KeyPCs, PCPath, false)
}

// Assemblies loads the national AC boundary payload. Placeholder features
// (constituencies that did not exist at the file's delimitation epoch,
// detected by an empty AC name) are dropped in addition to the malformed
// ones.
func (l *Loader) Assemblies(ctx context.Context) (*types.FeatureCollection, error) {
	return l.load(ctx, KeyAssemblies, AssembliesPath, true)
}

// Districts loads the per-state district boundary payload.
func (l *Loader) Districts(ctx context.Context, stateID string) (*types.FeatureCollection, error) {
	return l.load(ctx, DistrictsKey(stateID), DistrictsPath(stateID), false)
}

// load reads a payload through the cache tiers. The durable read always
// settles before any network fetch is issued for the same key. Cached
// payloads are re-filtered on read and re-persisted when the feature count
// changed, so caches populated by a pre-filtering version self-heal.
func (l *Loader) load(ctx context.Context, key, path string, dropPlaceholders bool) (*types.FeatureCollection, error) {
	if data, ok := l.cache.Get(ctx, key); ok {
		fc, err := decodeCollection(data)
		if err != nil {
			// A corrupt cache entry is treated as a miss.
			l.logger.Warn("cached payload corrupt, refetching",
				zap.String("key", key), zap.Error(err))
			l.cache.Invalidate(ctx, key)
		} else {
			before := len(fc.Features)
			filterFeatures(fc, dropPlaceholders)
			if len(fc.Features) != before {
				l.rePersist(ctx, key, fc)
			}
			return fc, nil
		}
	}

	data, err := l.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	fc, err := decodeCollection(data)
	if err != nil {
		return nil, err
	}
	filterFeatures(fc, dropPlaceholders)

	// Cache the filtered, wrapped form, not the raw bytes.
	encoded, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidGeoJSON, err)
	}
	l.cache.Put(ctx, key, encoded)
	return fc, nil
}

func (l *Loader) rePersist(ctx context.Context, key string, fc *types.FeatureCollection) {
	encoded, err := json.Marshal(fc)
	if err != nil {
		l.logger.Warn("re-encode of healed payload failed", zap.String("key", key), zap.Error(err))
		return
	}
	l.cache.Persist(ctx, key, encoded)
	l.logger.Info("cached payload re-filtered",
		zap.String("key", key), zap.Int("features", len(fc.Features)))
}

// PreloadDistricts fires all per-state district fetches concurrently. A
// missing or failing state file is logged and skipped; it never fails the
// batch. Results may arrive in any order.
func (l *Loader) PreloadDistricts(ctx context.Context, stateIDs []string) {
	var wg sync.WaitGroup
	for _, stateID := range stateIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := l.Districts(ctx, id); err != nil {
				l.logger.Warn("district preload skipped",
					zap.String("state", id), zap.Error(err))
			}
		}(stateID)
	}
	wg.Wait()
}

func decodeCollection(data []byte) (*types.FeatureCollection, error) {
	var fc types.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidGeoJSON, err)
	}
	return &fc, nil
}

// filterFeatures drops malformed features (missing geometry or identifying
// properties) and, when dropPlaceholders is set, pre-delimitation stubs with
// an empty AC name.
func filterFeatures(fc *types.FeatureCollection, dropPlaceholders bool) {
	kept := fc.Features[:0]
	for _, f := range fc.Features {
		if !f.IsValid() {
			continue
		}
		if dropPlaceholders && f.Props.ACName == "" {
			continue
		}
		kept = append(kept, f)
	}
	fc.Features = kept
}
