// Package results attaches election and booth vote data to resolved
// entities. Result dictionaries are keyed either by canonical schema ID or
// by raw constituency name depending on vintage, so lookups go through the
// schema resolver when it is ready and fall back to the legacy matcher
// otherwise.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/politic-in/atlas/aliases"
	"github.com/politic-in/atlas/cache"
	"github.com/politic-in/atlas/geodata"
	legacymatch "github.com/politic-in/atlas/legacy-match"
	"github.com/politic-in/atlas/schema"
	"github.com/politic-in/atlas/types"
)

// boothPayloadCacheSize bounds the per-AC booth payload LRU. Booth files are
// small but numerous; unlike boundary payloads they are not worth pinning
// for the whole process lifetime.
const boothPayloadCacheSize = 64

// BoothPayload is the per-AC, per-year booth file: booth metadata plus a
// results dictionary keyed by booth ID with positional vote arrays aligned
// to the same year's candidate list, and a postal-vote breakdown.
type BoothPayload struct {
	Booths  []types.Booth               `json:"booths"`
	Results map[string]types.BoothVotes `json:"results"`
	Postal  *types.PostalVotes          `json:"postal,omitempty"`
}

// Service loads result payloads through the two-tier cache and resolves
// constituency lookups against them.
type Service struct {
	fetcher  geodata.Fetcher
	cache    *cache.TwoTier
	resolver *schema.Resolver
	logger   *zap.Logger

	matcherMu sync.Mutex
	matchers  map[string]*legacymatch.Matcher

	boothCache *lru.Cache[string, *BoothPayload]
}

// NewService creates a results service. resolver may be nil or not ready;
// lookups then use only the legacy path.
func NewService(fetcher geodata.Fetcher, c *cache.TwoTier, resolver *schema.Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	boothCache, _ := lru.New[string, *BoothPayload](boothPayloadCacheSize)
	return &Service{
		fetcher:    fetcher,
		cache:      c,
		resolver:   resolver,
		logger:     logger,
		matchers:   make(map[string]*legacymatch.Matcher),
		boothCache: boothCache,
	}
}

func resultPath(stateID string, year int) string {
	return fmt.Sprintf("results/%s/%d.json", stateID, year)
}

func resultKey(stateID string, year int) string {
	return fmt.Sprintf("results_%s_%d", stateID, year)
}

func boothPath(acID string, year int) string {
	return fmt.Sprintf("booths/%s/%d.json", acID, year)
}

func boothKey(acID string, year int) string {
	return fmt.Sprintf("booths_%s_%d", acID, year)
}

// ResultSet loads the per-state, per-year results dictionary.
func (s *Service) ResultSet(ctx context.Context, stateID string, year int) (types.ResultSet, error) {
	data, err := s.cache.GetOrFill(ctx, resultKey(stateID, year), func(ctx context.Context) ([]byte, error) {
		return s.fetcher.Fetch(ctx, resultPath(stateID, year))
	})
	if err != nil {
		return nil, err
	}
	var set types.ResultSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: results %s/%d: %v", types.ErrInvalidJSON, stateID, year, err)
	}
	return set, nil
}

// matcherFor returns the memoized legacy matcher for a state+year result
// dictionary, building it on first use.
func (s *Service) matcherFor(ctx context.Context, stateID string, year int) (*legacymatch.Matcher, error) {
	key := resultKey(stateID, year)
	s.matcherMu.Lock()
	if m, ok := s.matchers[key]; ok {
		s.matcherMu.Unlock()
		return m, nil
	}
	s.matcherMu.Unlock()

	set, err := s.ResultSet(ctx, stateID, year)
	if err != nil {
		return nil, err
	}
	m := legacymatch.New(set)

	s.matcherMu.Lock()
	s.matchers[key] = m
	s.matcherMu.Unlock()
	return m, nil
}

// ResultFor finds the constituency result for a free-text AC name. The
// schema resolver supplies a canonical ID when ready; otherwise (or when the
// dictionary predates IDs) the legacy ladder runs, retrying the partition
// sibling's dictionary for states split across result files. A nil result
// with nil error means not found.
func (s *Service) ResultFor(ctx context.Context, stateID string, year int, acName string) (*types.ConstituencyResult, error) {
	var schemaID string
	if s.resolver != nil && s.resolver.Ready() {
		schemaID = s.resolver.ResolveACName(acName, stateID)
	}

	primary, err := s.matcherFor(ctx, stateID, year)
	if err != nil {
		return nil, err
	}
	if match, ok := primary.Match(acName, schemaID); ok {
		return match.Result, nil
	}

	// Only a primary miss is worth the sibling dictionary fetch.
	siblingID, ok := aliases.SiblingState(stateID)
	if !ok {
		return nil, nil
	}
	sibling, err := s.matcherFor(ctx, siblingID, year)
	if err != nil {
		// The sibling file may simply not exist for this year.
		s.logger.Debug("sibling result set unavailable",
			zap.String("state", siblingID), zap.Int("year", year), zap.Error(err))
		return nil, nil
	}
	// The schema ID belongs to the queried state; the sibling lookup runs
	// the name ladder alone.
	match, ok := sibling.Match(acName, "")
	if !ok {
		return nil, nil
	}
	return match.Result, nil
}

// Booths loads the per-AC, per-year booth payload through the cache tiers
// and a bounded in-process LRU.
func (s *Service) Booths(ctx context.Context, acID string, year int) (*BoothPayload, error) {
	key := boothKey(acID, year)
	if payload, ok := s.boothCache.Get(key); ok {
		return payload, nil
	}

	data, err := s.cache.GetOrFill(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fetcher.Fetch(ctx, boothPath(acID, year))
	})
	if err != nil {
		return nil, err
	}
	var payload BoothPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: booths %s/%d: %v", types.ErrInvalidJSON, acID, year, err)
	}
	s.boothCache.Add(key, &payload)
	return &payload, nil
}

// VotesFor returns the vote record for one booth, if present.
func (p *BoothPayload) VotesFor(boothID string) (types.BoothVotes, bool) {
	v, ok := p.Results[boothID]
	return v, ok
}

// PostalBreakdown returns the postal-vote record, if the payload carries one.
func (p *BoothPayload) PostalBreakdown() (*types.PostalVotes, bool) {
	return p.Postal, p.Postal != nil
}
