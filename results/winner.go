package results

// Booth winner aggregation. Booth vote arrays are positionally aligned to
// the AC's candidate list for the same year; the winner is the non-NOTA
// candidate with the most booth votes, subject to a minimum AC-wide vote
// share that suppresses spurious wins attributed to data-corrupted minor
// candidate rows.

import (
	"github.com/politic-in/atlas/types"
)

// DefaultMinACShare is the minimum share of the AC-wide vote a candidate
// must hold to be a valid booth winner. Rows below it are almost always
// tabulation noise in the source files.
const DefaultMinACShare = 0.03

// BoothWinner describes the winning candidate at one booth.
type BoothWinner struct {
	Index     int                   `json:"index"` // position in the candidate list
	Candidate types.CandidateResult `json:"candidate"`
	Votes     int                   `json:"votes"`
	Percent   float64               `json:"percent"` // share of the booth total
}

// WinnerForBooth computes the booth winner given the booth's positional
// votes and the AC-wide candidate list. NOTA is never reported as a winner.
// Candidates whose AC-wide share falls below minACShare are excluded as
// data-corrupt; pass DefaultMinACShare unless calibrated otherwise.
// Returns nil when no valid winner exists (no votes, all candidates
// filtered, or an empty ballot).
func WinnerForBooth(votes types.BoothVotes, candidates []types.CandidateResult, minACShare float64) *BoothWinner {
	if len(votes.Votes) == 0 || len(candidates) == 0 {
		return nil
	}

	acTotal := 0
	for _, c := range candidates {
		acTotal += c.Votes
	}

	n := len(votes.Votes)
	if len(candidates) < n {
		n = len(candidates)
	}

	bestIdx, bestVotes := -1, 0
	for i := 0; i < n; i++ {
		if candidates[i].IsNOTA() {
			continue
		}
		if acTotal > 0 && minACShare > 0 {
			share := float64(candidates[i].Votes) / float64(acTotal)
			if share < minACShare {
				continue
			}
		}
		if votes.Votes[i] > bestVotes {
			bestVotes = votes.Votes[i]
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestVotes == 0 {
		return nil
	}

	percent := 0.0
	if votes.Total > 0 {
		percent = float64(bestVotes) / float64(votes.Total) * 100
	}
	return &BoothWinner{
		Index:     bestIdx,
		Candidate: candidates[bestIdx],
		Votes:     bestVotes,
		Percent:   percent,
	}
}

// ClosestYear resolves a requested year against the available election
// years: minimum absolute difference, ties broken toward the later year.
// Returns 0, false when no years are available.
func ClosestYear(available []int, want int) (int, bool) {
	if len(available) == 0 {
		return 0, false
	}
	best := available[0]
	for _, y := range available[1:] {
		dy := absInt(y - want)
		db := absInt(best - want)
		if dy < db || (dy == db && y > best) {
			best = y
		}
	}
	return best, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
