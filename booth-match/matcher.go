// Package boothmatch implements free-text booth search within an assembly
// constituency. Booth addresses come from polling station lists full of
// abbreviations and regional-language romanizations, so matching combines
// abbreviation expansion, keyword overlap, Jaro-Winkler similarity and edit
// distance.
package boothmatch

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/politic-in/atlas/types"
)

// Error definitions
var (
	ErrNoBooths        = errors.New("no booths indexed")
	ErrEmptyQuery      = errors.New("empty search query")
	ErrNoMatch         = errors.New("no matching booth")
	ErrBelowConfidence = errors.New("match confidence below threshold")
)

const (
	// MinConfidence is the minimum confidence required to accept a match
	MinConfidence = 0.7

	// HighConfidence threshold for near-exact matches
	HighConfidence = 0.9

	// DefaultCandidateLimit is the default number of candidates returned
	DefaultCandidateLimit = 5

	// MaxQueryLength truncates pathological inputs
	MaxQueryLength = 500
)

// Candidate is one scored booth match
type Candidate struct {
	Booth      types.Booth `json:"booth"`
	Confidence float64     `json:"confidence"` // 0.0 to 1.0
	Distance   int         `json:"distance"`   // Levenshtein distance
	MatchType  string      `json:"matchType"`  // "exact", "fuzzy"
}

// Config holds matcher tunables
type Config struct {
	MinConfidence      float64
	MaxCandidates      int
	EnableKeywordBoost bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		MinConfidence:      MinConfidence,
		MaxCandidates:      DefaultCandidateLimit,
		EnableKeywordBoost: true,
	}
}

// Index holds booths with precomputed normalized forms and lookup tables.
// Safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	booths     []types.Booth
	normalized []string
	boothsByAC map[string][]int
	exactIndex map[string][]int
	keywords   [][]string
	config     Config
}

// NewIndex indexes booths with the default configuration
func NewIndex(booths []types.Booth) *Index {
	return NewIndexWithConfig(booths, DefaultConfig())
}

// NewIndexWithConfig indexes booths with custom configuration
func NewIndexWithConfig(booths []types.Booth, config Config) *Index {
	idx := &Index{
		booths:     make([]types.Booth, len(booths)),
		normalized: make([]string, len(booths)),
		boothsByAC: make(map[string][]int),
		exactIndex: make(map[string][]int),
		keywords:   make([][]string, len(booths)),
		config:     config,
	}
	for i, b := range booths {
		idx.booths[i] = b
		norm := NormalizeAddress(b.Address)
		idx.normalized[i] = norm
		idx.boothsByAC[b.ACID] = append(idx.boothsByAC[b.ACID], i)
		idx.exactIndex[norm] = append(idx.exactIndex[norm], i)
		if config.EnableKeywordBoost {
			idx.keywords[i] = ExtractKeywords(b.Address)
		}
	}
	return idx
}

// Add appends one booth to the index
func (idx *Index) Add(b types.Booth) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	i := len(idx.booths)
	norm := NormalizeAddress(b.Address)
	idx.booths = append(idx.booths, b)
	idx.normalized = append(idx.normalized, norm)
	idx.boothsByAC[b.ACID] = append(idx.boothsByAC[b.ACID], i)
	idx.exactIndex[norm] = append(idx.exactIndex[norm], i)
	idx.keywords = append(idx.keywords, ExtractKeywords(b.Address))
}

// Len returns the number of indexed booths
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.booths)
}

// BoothsForAC returns the indexed booths belonging to one AC
func (idx *Index) BoothsForAC(acID string) []types.Booth {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	indices := idx.boothsByAC[acID]
	booths := make([]types.Booth, len(indices))
	for i, bi := range indices {
		booths[i] = idx.booths[bi]
	}
	return booths
}

// Best returns the single best match for a query within an AC, or an error
// when nothing clears the confidence threshold.
func (idx *Index) Best(query, acID string) (*Candidate, error) {
	candidates, err := idx.Search(query, acID, 1)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}
	best := candidates[0]
	if best.Confidence < idx.config.MinConfidence {
		return nil, ErrBelowConfidence
	}
	return &best, nil
}

// Search returns up to limit scored candidates for a query within an AC,
// best first.
func (idx *Index) Search(query, acID string, limit int) ([]Candidate, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.booths) == 0 {
		return nil, ErrNoBooths
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if len(query) > MaxQueryLength {
		query = query[:MaxQueryLength]
	}
	if limit <= 0 {
		limit = idx.config.MaxCandidates
	}

	norm := NormalizeAddress(query)

	// Exact match short-circuits scoring.
	if hits := idx.exactWithinAC(norm, acID); len(hits) > 0 {
		out := make([]Candidate, 0, len(hits))
		for _, bi := range hits {
			out = append(out, Candidate{
				Booth:      idx.booths[bi],
				Confidence: 1.0,
				MatchType:  "exact",
			})
		}
		if len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	}

	var queryKeywords []string
	if idx.config.EnableKeywordBoost {
		queryKeywords = ExtractKeywords(query)
	}

	var out []Candidate
	for _, bi := range idx.boothsByAC[acID] {
		target := idx.normalized[bi]
		if target == "" {
			continue
		}
		dist := levenshtein.ComputeDistance(norm, target)
		maxLen := len(norm)
		if len(target) > maxLen {
			maxLen = len(target)
		}
		editScore := 0.0
		if maxLen > 0 {
			editScore = 1.0 - float64(dist)/float64(maxLen)
		}
		jaro := smetrics.JaroWinkler(norm, target, 0.7, 4)

		confidence := editScore
		if jaro > confidence {
			confidence = jaro
		}
		if idx.config.EnableKeywordBoost && len(queryKeywords) > 0 {
			confidence += keywordBonus(queryKeywords, idx.keywords[bi])
			if confidence > 1.0 {
				confidence = 1.0
			}
		}
		if confidence <= 0 {
			continue
		}
		out = append(out, Candidate{
			Booth:      idx.booths[bi],
			Confidence: confidence,
			Distance:   dist,
			MatchType:  "fuzzy",
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (idx *Index) exactWithinAC(norm, acID string) []int {
	var hits []int
	for _, bi := range idx.exactIndex[norm] {
		if idx.booths[bi].ACID == acID {
			hits = append(hits, bi)
		}
	}
	return hits
}

// keywordBonus rewards overlap between query and booth keywords, up to 0.1.
func keywordBonus(query, target []string) float64 {
	if len(query) == 0 || len(target) == 0 {
		return 0
	}
	matched := 0
	for _, q := range query {
		for _, t := range target {
			if q == t || strings.Contains(t, q) || strings.Contains(q, t) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(query)) * 0.1
}
