package navigation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/politic-in/atlas/normalize"
	"github.com/politic-in/atlas/types"
)

// districtSegment marks the middle path segment as a district rather than
// a parliamentary constituency.
const districtSegment = "district"

// Link is the decoded form of a shareable URL. Path segments carry slugs
// (diacritics stripped, spaces hyphenated); Year carries the selected
// result year, with PCYear set when the year names the parent PC's
// contribution year rather than the assembly's own.
type Link struct {
	State    string
	PC       string
	District string
	Assembly string
	Year     int
	PCYear   bool
	Tab      string
}

// Encode renders the machine state plus result selection as a path and
// query string, e.g. /tamil-nadu/chennai-north/villivakkam?year=2021&tab=booths
// or /karnataka/district/bengaluru-urban?year=pc-2019.
func Encode(s State, year int, pcYear bool, tab string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(normalize.Slug(s.StateName))

	switch {
	case s.PC != "":
		b.WriteString("/")
		b.WriteString(normalize.Slug(s.PC))
	case s.District != "":
		b.WriteString("/")
		b.WriteString(districtSegment)
		b.WriteString("/")
		b.WriteString(normalize.Slug(s.District))
	}
	if s.Assembly != "" && (s.PC != "" || s.District != "") {
		b.WriteString("/")
		b.WriteString(normalize.Slug(s.Assembly))
	}

	q := url.Values{}
	if year > 0 {
		if pcYear {
			q.Set("year", "pc-"+strconv.Itoa(year))
		} else {
			q.Set("year", strconv.Itoa(year))
		}
	}
	if tab != "" {
		q.Set("tab", tab)
	}
	if enc := q.Encode(); enc != "" {
		b.WriteString("?")
		b.WriteString(enc)
	}
	return b.String()
}

// Parse decodes a previously encoded link. Segments come back as slugs;
// resolving them to canonical entities is the caller's job.
func Parse(raw string) (Link, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}

	segs := splitPath(u.Path)
	if len(segs) == 0 {
		return Link{}, fmt.Errorf("%w: empty path", types.ErrInvalidInput)
	}

	var l Link
	l.State = segs[0]
	rest := segs[1:]

	if len(rest) > 0 && rest[0] == districtSegment {
		if len(rest) < 2 {
			return Link{}, fmt.Errorf("%w: district segment without name", types.ErrInvalidInput)
		}
		l.District = rest[1]
		rest = rest[2:]
	} else if len(rest) > 0 {
		l.PC = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		l.Assembly = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return Link{}, fmt.Errorf("%w: trailing path segments", types.ErrInvalidInput)
	}

	if y := u.Query().Get("year"); y != "" {
		spec := y
		if strings.HasPrefix(spec, "pc-") {
			l.PCYear = true
			spec = strings.TrimPrefix(spec, "pc-")
		}
		year, err := strconv.Atoi(spec)
		if err != nil {
			return Link{}, fmt.Errorf("%w: year %q", types.ErrInvalidInput, y)
		}
		l.Year = year
	}
	l.Tab = u.Query().Get("tab")

	return l, nil
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
