// Package aliases holds hand-curated name-alias tables: state-name variants,
// historical district renames, and known spelling corrections between
// geographic and electoral sources. Pure data, consumed by the schema
// resolver, legacy matcher, and navigation packages.
package aliases

import "github.com/politic-in/atlas/normalize"

// stateAliases maps normalized name variants to canonical state IDs.
// Covers legacy names (Orissa, Pondicherry), diacritic-free spellings,
// and the verbose forms used by boundary files.
var stateAliases = map[string]string{
	"andhra pradesh":    "AP",
	"arunachal pradesh": "AR",
	"assam":             "AS",
	"bihar":             "BR",
	"chhattisgarh":      "CG",
	"chattisgarh":       "CG",
	"goa":               "GA",
	"gujarat":           "GJ",
	"haryana":           "HR",
	"himachal pradesh":  "HP",
	"jharkhand":         "JH",
	"karnataka":         "KA",
	"kerala":            "KL",
	"madhya pradesh":    "MP",
	"maharashtra":       "MH",
	"manipur":           "MN",
	"meghalaya":         "ML",
	"mizoram":           "MZ",
	"nagaland":          "NL",
	"odisha":            "OR",
	"orissa":            "OR",
	"punjab":            "PB",
	"rajasthan":         "RJ",
	"sikkim":            "SK",
	"tamil nadu":        "TN",
	"tamilnadu":         "TN",
	"madras":            "TN",
	"telangana":         "TG",
	"telengana":         "TG",
	"tripura":           "TR",
	"uttar pradesh":     "UP",
	"uttarakhand":       "UK",
	"uttaranchal":       "UK",
	"west bengal":       "WB",

	// Union territories
	"andaman and nicobar islands":              "AN",
	"andaman and nicobar":                      "AN",
	"chandigarh":                               "CH",
	"dadra and nagar haveli and daman and diu": "DN",
	"dadra and nagar haveli":                   "DN",
	"daman and diu":                            "DN",
	"delhi":                                    "DL",
	"nct of delhi":                             "DL",
	"national capital territory of delhi":      "DL",
	"jammu and kashmir":                        "JK",
	"jammu kashmir":                            "JK",
	"ladakh":                                   "LA",
	"lakshadweep":                              "LD",
	"puducherry":                               "PY",
	"pondicherry":                              "PY",
}

// StateIDForAlias resolves a free-text state name variant to its canonical
// ID. Returns "" when the variant is unknown.
func StateIDForAlias(name string) string {
	return stateAliases[normalize.Key(name)]
}

// knownCorrections maps canonical keys of names as they appear in electoral
// result files to the spelling used by the boundary files. Hand-curated from
// observed OCR and transliteration divergences; extend as new mismatches
// surface.
var knownCorrections = map[string]string{
	"tiruvallur":     "Thiruvallur",
	"tiruchirapalli": "Tiruchirappalli",
	"thoothukkudi":   "Thoothukudi",
	"kanniyakumari":  "Kanyakumari",
	"villupuram":     "Viluppuram",
	"panji":          "Panaji",
	"baramula":       "Baramulla",
	"belgaum":        "Belagavi",
	"bellary":        "Ballari",
	"bijapur":        "Vijayapura",
	"gulbarga":       "Kalaburagi",
	"mysore":         "Mysuru",
	"shimoga":        "Shivamogga",
	"tumkur":         "Tumakuru",
	"hoogly":         "Hooghly",
	"howrah":         "Haora",
	"burdwan":        "Bardhaman",
	"cooch behar":    "Koch Bihar",
	"purulia":        "Puruliya",
	"allahabad":      "Prayagraj",
	"faizabad":       "Ayodhya",
	"osmanabad":      "Dharashiv",
	"cuddapah":       "Kadapa",
	"rangareddi":     "Ranga Reddy",
	"mahbubnagar":    "Mahabubnagar",
	"karimnagar":     "Karim Nagar",
	"vizianagaram":   "Vizianagram",
	"visakhapatanam": "Visakhapatnam",
	"trivandrum":     "Thiruvananthapuram",
	"calicut":        "Kozhikode",
	"cannanore":      "Kannur",
	"alleppey":       "Alappuzha",
	"quilon":         "Kollam",
	"trichur":        "Thrissur",
	"palghat":        "Palakkad",
	"gurgaon":        "Gurugram",
	"mewat":          "Nuh",
	"silvasa":        "Silvassa",
}

// Correction returns the curated replacement spelling for a canonical key,
// if one exists.
func Correction(canonicalKey string) (string, bool) {
	name, ok := knownCorrections[canonicalKey]
	return name, ok
}

// districtRenames maps, per state, normalized legacy district names to the
// current canonical district name. Applied before district filtering so
// pre-reorganization boundary files still resolve.
var districtRenames = map[string]map[string]string{
	"HR": {
		"gurgaon": "Gurugram",
		"mewat":   "Nuh",
	},
	"KA": {
		"bangalore":       "Bengaluru Urban",
		"bangalore rural": "Bengaluru Rural",
		"belgaum":         "Belagavi",
		"bellary":         "Ballari",
		"bijapur":         "Vijayapura",
		"gulbarga":        "Kalaburagi",
		"mysore":          "Mysuru",
		"shimoga":         "Shivamogga",
		"tumkur":          "Tumakuru",
		"chikmagalur":     "Chikkamagaluru",
	},
	"MH": {
		"aurangabad": "Chhatrapati Sambhajinagar",
		"osmanabad":  "Dharashiv",
	},
	"UP": {
		"allahabad": "Prayagraj",
		"faizabad":  "Ayodhya",
	},
	"AP": {
		"cuddapah": "YSR Kadapa",
		"kadapa":   "YSR Kadapa",
	},
	"TN": {
		"madras":                  "Chennai",
		"north arcot":             "Vellore",
		"south arcot":             "Cuddalore",
		"tirunelveli kattabomman": "Tirunelveli",
	},
	"WB": {
		"west dinajpur": "Uttar Dinajpur",
	},
	"OR": {
		"baleswar": "Balasore",
	},
}

// DistrictRename returns the current name for a possibly-legacy district
// name within a state. Unknown names come back unchanged.
func DistrictRename(stateID, name string) string {
	renames, ok := districtRenames[stateID]
	if !ok {
		return name
	}
	if current, ok := renames[normalize.Key(name)]; ok {
		return current
	}
	return name
}

// siblingStates records state partitions whose result files straddle the
// split: a constituency missed under one state is retried under its sibling.
// Andhra Pradesh / Telangana split in 2014.
var siblingStates = map[string]string{
	"AP": "TG",
	"TG": "AP",
}

// SiblingState returns the partition sibling for a state, if any.
func SiblingState(stateID string) (string, bool) {
	sibling, ok := siblingStates[stateID]
	return sibling, ok
}
