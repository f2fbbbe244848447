// Package legacymatch implements the fallback name matcher for result
// dictionaries that predate schema IDs. Keys in those dictionaries are
// inconsistent free-text names; the matcher walks a fixed strategy ladder
// (schema ID, exact, canonical key, curated alias, similarity score,
// phonetic reduction) and the first success wins.
//
// This path is retired wherever the canonical schema is available: once a
// schema exists, fuzzy matching is considered unreliable and resolution goes
// through the schema package instead.
package legacymatch

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/politic-in/atlas/aliases"
	"github.com/politic-in/atlas/normalize"
	"github.com/politic-in/atlas/types"
)

// Strategy identifies which rung of the ladder produced a match
type Strategy string

const (
	StrategySchemaID   Strategy = "schema_id"
	StrategyExact      Strategy = "exact"
	StrategyCanonical  Strategy = "canonical"
	StrategyCorrection Strategy = "correction"
	StrategySimilarity Strategy = "similarity"
	StrategyPhonetic   Strategy = "phonetic"
)

const (
	// DefaultSimilarityThreshold is the minimum containment/character score
	// required to accept a similarity match. Empirically chosen; tune
	// through Config, not here.
	DefaultSimilarityThreshold = 0.7
)

// Config holds tunables for the matcher
type Config struct {
	SimilarityThreshold float64
	EnablePhonetic      bool
}

// DefaultConfig returns the default matcher configuration
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		EnablePhonetic:      true,
	}
}

// MatchResult describes a successful dictionary match
type MatchResult struct {
	Key      string                    `json:"key"` // the dictionary key that matched
	Result   *types.ConstituencyResult `json:"-"`
	Strategy Strategy                  `json:"strategy"`
	Score    float64                   `json:"score"`    // 1.0 for exact rungs
	Distance int                       `json:"distance"` // Levenshtein between query and key
}

// entry is one indexed dictionary key
type entry struct {
	key       string
	exact     string // upper-cased, whitespace-collapsed
	canonical string // normalize.Key with parentheticals stripped
	phonetic  string
}

// Matcher matches free-text constituency names against one result
// dictionary. Indices are built once at construction; the matcher itself is
// read-only and safe for concurrent use.
type Matcher struct {
	set     types.ResultSet
	entries []entry
	byExact map[string]int
	byCanon map[string]int
	config  Config
}

// New creates a matcher over a results dictionary with default config
func New(set types.ResultSet) *Matcher {
	return NewWithConfig(set, DefaultConfig())
}

// NewWithConfig creates a matcher with custom configuration
func NewWithConfig(set types.ResultSet, config Config) *Matcher {
	m := &Matcher{
		set:     set,
		entries: make([]entry, 0, len(set)),
		byExact: make(map[string]int, len(set)),
		byCanon: make(map[string]int, len(set)),
	}
	if config.SimilarityThreshold <= 0 {
		config.SimilarityThreshold = DefaultSimilarityThreshold
	}
	m.config = config

	for key := range set {
		e := entry{
			key:       key,
			exact:     exactKey(key),
			canonical: canonicalKey(key),
		}
		if config.EnablePhonetic {
			e.phonetic = normalize.PhoneticKey(key)
		}
		idx := len(m.entries)
		m.entries = append(m.entries, e)
		if _, dup := m.byExact[e.exact]; !dup {
			m.byExact[e.exact] = idx
		}
		if _, dup := m.byCanon[e.canonical]; !dup {
			m.byCanon[e.canonical] = idx
		}
	}
	return m
}

// Len returns the number of dictionary entries indexed
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Match finds the dictionary entry for a free-text name. schemaID, when the
// caller has one, short-circuits everything. Returns nil, false when every
// strategy fails; exhaustion is an expected outcome, never an error.
func (m *Matcher) Match(name, schemaID string) (*MatchResult, bool) {
	if schemaID != "" {
		if res, ok := m.set[schemaID]; ok {
			return &MatchResult{Key: schemaID, Result: res, Strategy: StrategySchemaID, Score: 1}, true
		}
	}
	if name == "" {
		return nil, false
	}

	canon := canonicalKey(name)

	if idx, ok := m.byExact[exactKey(name)]; ok {
		return m.result(idx, StrategyExact, 1, canon), true
	}

	if idx, ok := m.byCanon[canon]; ok {
		return m.result(idx, StrategyCanonical, 1, canon), true
	}

	// Curated corrections for known OCR/spelling divergences between
	// geographic and electoral sources.
	if corrected, ok := aliases.Correction(canon); ok {
		if idx, ok := m.byCanon[canonicalKey(corrected)]; ok {
			return m.result(idx, StrategyCorrection, 1, canon), true
		}
	}

	if idx, score, ok := m.bestSimilarity(canon); ok {
		return m.result(idx, StrategySimilarity, score, canon), true
	}

	if m.config.EnablePhonetic {
		if idx, ok := m.phoneticMatch(name); ok {
			return m.result(idx, StrategyPhonetic, 1, canon), true
		}
	}

	return nil, false
}

// MatchWithFallback tries the primary dictionary first and then, for states
// split across result files (Andhra Pradesh / Telangana after 2014), the
// sibling state's dictionary before giving up.
func MatchWithFallback(primary, sibling *Matcher, name, schemaID string) (*MatchResult, bool) {
	if primary != nil {
		if r, ok := primary.Match(name, schemaID); ok {
			return r, true
		}
	}
	if sibling != nil {
		// Schema IDs are state-scoped; only name strategies cross the split.
		if r, ok := sibling.Match(name, ""); ok {
			return r, true
		}
	}
	return nil, false
}

func (m *Matcher) result(idx int, strategy Strategy, score float64, queryCanon string) *MatchResult {
	e := m.entries[idx]
	return &MatchResult{
		Key:      e.key,
		Result:   m.set[e.key],
		Strategy: strategy,
		Score:    score,
		Distance: fuzzy.LevenshteinDistance(queryCanon, e.canonical),
	}
}

// bestSimilarity scans all entries for the highest containment/character
// score above the threshold.
func (m *Matcher) bestSimilarity(canon string) (int, float64, bool) {
	if canon == "" {
		return 0, 0, false
	}
	bestIdx, bestScore := -1, 0.0
	for i := range m.entries {
		score := similarity(canon, m.entries[i].canonical)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestScore > m.config.SimilarityThreshold {
		return bestIdx, bestScore, true
	}
	return 0, 0, false
}

// similarity scores two canonical forms: containment of the shorter in the
// longer yields len(shorter)/len(longer); otherwise the count of the
// shorter's characters present anywhere in the longer, divided by the
// longer's length.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	present := 0
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			present++
		}
	}
	return float64(present) / float64(len(longer))
}

func (m *Matcher) phoneticMatch(name string) (int, bool) {
	p := normalize.PhoneticKey(name)
	if p == "" {
		return 0, false
	}
	for i := range m.entries {
		if m.entries[i].phonetic != "" && m.entries[i].phonetic == p {
			return i, true
		}
	}
	return 0, false
}

// exactKey upper-cases and collapses whitespace, matching how raw result
// dictionaries key their entries.
func exactKey(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// canonicalKey is the normalize.Key form with parentheticals removed first,
// so "Villivakkam (SC)" and "VILLIVAKKAM" reduce identically.
func canonicalKey(s string) string {
	return normalize.Key(normalize.StripParens(s))
}
