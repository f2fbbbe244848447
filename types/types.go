// Package types provides common types and errors for the Atlas core packages.
// It defines the canonical entity records (states, parliamentary and assembly
// constituencies, districts, polling booths) and result payload shapes shared
// by the schema resolver, legacy matcher, loader and navigation packages.
package types

import (
	"errors"
	"fmt"
)

// Common Error Definitions
var (
	// General errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrFetchFailed     = errors.New("fetch failed")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrInvalidGeoJSON  = errors.New("invalid GeoJSON format")
	ErrSchemaNotReady  = errors.New("schema not loaded")
	ErrOperationFailed = errors.New("operation failed")

	// Entity errors
	ErrStateNotFound    = errors.New("state not found")
	ErrPCNotFound       = errors.New("parliamentary constituency not found")
	ErrACNotFound       = errors.New("assembly constituency not found")
	ErrDistrictNotFound = errors.New("district not found")
	ErrBoothNotFound    = errors.New("booth not found")

	// Result errors
	ErrNoResults       = errors.New("no results for year")
	ErrNoBoothsLoaded  = errors.New("no booths loaded")
	ErrYearUnavailable = errors.New("no election year available")
)

// WrapError wraps an error with additional context
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// EntityType distinguishes states from union territories
type EntityType string

const (
	EntityState EntityType = "state"
	EntityUT    EntityType = "ut"
)

// Reservation is the seat reservation status of a constituency
type Reservation string

const (
	ReservationGeneral Reservation = "GEN"
	ReservationSC      Reservation = "SC"
	ReservationST      Reservation = "ST"
)

// Election kinds used to key per-state available election years
const (
	ElectionAssembly   = "assembly"
	ElectionParliament = "parliament"
)

// StateEntity represents an Indian state or union territory.
// Immutable once loaded from the schema document.
type StateEntity struct {
	ID               string           `json:"id"` // "TN", "AP"
	Name             string           `json:"name"`
	Aliases          []string         `json:"aliases,omitempty"`
	ISOCode          string           `json:"isoCode,omitempty"` // "IN-TN"
	CensusCode       string           `json:"censusCode,omitempty"`
	Type             EntityType       `json:"type"`
	PCSeats          int              `json:"pcSeats"`
	ACSeats          int              `json:"acSeats"`
	DelimitationYear int              `json:"delimitationYear"`
	ElectionYears    map[string][]int `json:"electionYears,omitempty"` // "assembly", "parliament" -> years
}

// IsUT returns true for union territories
func (s StateEntity) IsUT() bool {
	return s.Type == EntityUT
}

// PCEntity represents a Parliamentary Constituency
type PCEntity struct {
	ID               string      `json:"id"` // "TN-01"
	StateID          string      `json:"stateId"`
	PCNo             int         `json:"pcNo"`
	Name             string      `json:"name"`
	Aliases          []string    `json:"aliases,omitempty"`
	Type             Reservation `json:"type"`
	AssemblyIDs      []string    `json:"assemblyIds,omitempty"`
	DelimitationYear int         `json:"delimitationYear"`
}

// IsReserved returns true if the seat is reserved (SC/ST)
func (pc PCEntity) IsReserved() bool {
	return pc.Type == ReservationSC || pc.Type == ReservationST
}

// ACEntity represents an Assembly Constituency. PCID and DistrictID are
// back-references: districts and PCs both claim the same ACs as children,
// so the relationship is many-to-one per dimension, not a tree.
type ACEntity struct {
	ID               string      `json:"id"` // "TN-001"
	StateID          string      `json:"stateId"`
	PCID             string      `json:"pcId,omitempty"`
	DistrictID       string      `json:"districtId,omitempty"`
	ACNo             int         `json:"acNo"`
	Name             string      `json:"name"`
	Aliases          []string    `json:"aliases,omitempty"`
	Type             Reservation `json:"type"`
	DelimitationYear int         `json:"delimitationYear"`
}

// IsReserved returns true if the seat is reserved (SC/ST)
func (ac ACEntity) IsReserved() bool {
	return ac.Type == ReservationSC || ac.Type == ReservationST
}

// IsPlaceholder reports whether this record is a pre-delimitation stub.
// Placeholder ACs carry an empty name and must never be surfaced.
func (ac ACEntity) IsPlaceholder() bool {
	return ac.Name == ""
}

// DistrictEntity represents an administrative district
type DistrictEntity struct {
	ID          string   `json:"id"`
	StateID     string   `json:"stateId"`
	CensusCode  string   `json:"censusCode,omitempty"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	AssemblyIDs []string `json:"assemblyIds,omitempty"`
}

// BoothType classifies polling stations
type BoothType string

const (
	BoothRegular   BoothType = "regular"
	BoothWomen     BoothType = "women"
	BoothAuxiliary BoothType = "auxiliary"
	BoothSpecial   BoothType = "special"
)

// Booth represents a polling station within an AC
type Booth struct {
	ID      string    `json:"id"` // "TN-001-42"
	ACID    string    `json:"acId"`
	No      int       `json:"no"`
	Type    BoothType `json:"type"`
	Address string    `json:"address"`
	Lat     *float64  `json:"lat,omitempty"`
	Lng     *float64  `json:"lng,omitempty"`
}

// BoothIDFor builds a canonical booth ID from its AC and booth number
func BoothIDFor(acID string, boothNo int) string {
	return fmt.Sprintf("%s-%d", acID, boothNo)
}

// HasLocation reports whether the booth carries a geocoordinate
func (b Booth) HasLocation() bool {
	return b.Lat != nil && b.Lng != nil
}

// BoothVotes holds a booth's vote counts, positionally aligned to the
// candidate list of the same AC and year.
type BoothVotes struct {
	BoothID  string `json:"boothId"`
	Votes    []int  `json:"votes"`
	Total    int    `json:"total"`
	Rejected int    `json:"rejected,omitempty"`
}

// CandidateResult holds one candidate's constituency-wide result
type CandidateResult struct {
	Name    string  `json:"name"`
	Party   string  `json:"party,omitempty"`
	Votes   int     `json:"votes"`
	Percent float64 `json:"percent,omitempty"`
}

// IsNOTA reports whether the candidate entry is the "None of the Above" option
func (c CandidateResult) IsNOTA() bool {
	return c.Name == "NOTA" || c.Name == "None of the Above"
}

// ConstituencyResult is one constituency's result for one election year
type ConstituencyResult struct {
	Candidates []CandidateResult `json:"candidates"`
	TotalVotes int               `json:"totalVotes"`
	Turnout    float64           `json:"turnout,omitempty"`
	Winner     string            `json:"winner,omitempty"`
	RunnerUp   string            `json:"runnerUp,omitempty"`
	Margin     int               `json:"margin,omitempty"`
}

// ResultSet is a per-state, per-year results dictionary. Keys are either
// canonical schema IDs ("TN-001") or raw uppercase constituency names,
// depending on the vintage of the source file.
type ResultSet map[string]*ConstituencyResult

// PostalVotes is the per-candidate postal ballot breakdown for an AC
type PostalVotes struct {
	ACID  string `json:"acId"`
	Votes []int  `json:"votes"` // aligned to the candidate list
	Total int    `json:"total"`
}
