package boothmatch

import (
	"strings"

	"github.com/politic-in/atlas/normalize"
)

// Common abbreviations in Indian polling station addresses (multi-lingual)
var abbreviations = map[string]string{
	// English
	"govt":  "government",
	"gov":   "government",
	"pri":   "primary",
	"pry":   "primary",
	"prim":  "primary",
	"sec":   "secondary",
	"sr":    "senior",
	"jr":    "junior",
	"sch":   "school",
	"schl":  "school",
	"bldg":  "building",
	"rd":    "road",
	"no":    "number",
	"blk":   "block",
	"comm":  "community",
	"hosp":  "hospital",
	"disp":  "dispensary",
	"elem":  "elementary",
	"coll":  "college",
	"univ":  "university",
	"mun":   "municipal",
	"corp":  "corporation",
	"corpn": "corporation",
	"dist":  "district",
	"hq":    "headquarters",
	"opp":   "opposite",
	"nr":    "near",

	// Hindi and common Indian terms
	"sarkar":    "government",
	"sarkari":   "government",
	"vidyalaya": "school",
	"vidya":     "school",
	"prathamik": "primary",
	"prath":     "primary",
	"madhyamik": "secondary",
	"uchcha":    "higher",
	"kendra":    "center",
	"bhavan":    "building",
	"marg":      "road",
	"sadak":     "road",
	"gali":      "lane",
	"mohalla":   "locality",
	"nagar":     "town",
	"gram":      "village",
	"gaon":      "village",
	"mandal":    "block",
	"panchayat": "council",
	"samiti":    "committee",
}

// stopwords ignored during keyword extraction
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true,
	"at": true, "to": true, "for": true, "and": true, "or": true,
	"with": true, "by": true, "from": true, "on": true,
	"part": true, "room": true, "hall": true, "building": true,
	"ka": true, "ki": true, "ke": true, "se": true, "me": true,
}

// NormalizeAddress reduces a booth address for comparison: canonical key
// plus abbreviation expansion.
func NormalizeAddress(s string) string {
	return ExpandAbbreviations(normalize.Key(s))
}

// ExpandAbbreviations expands known abbreviations word by word. Input is
// expected to already be lower-cased and punctuation-free.
func ExpandAbbreviations(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if expanded, ok := abbreviations[w]; ok {
			words[i] = expanded
		}
	}
	return strings.Join(words, " ")
}

// ExtractKeywords pulls the significant words out of a booth address,
// dropping stopwords and very short tokens.
func ExtractKeywords(address string) []string {
	words := strings.Fields(NormalizeAddress(address))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 4 || stopwords[w] {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}
