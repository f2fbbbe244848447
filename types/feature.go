package types

import (
	"encoding/json"
	"strconv"
)

// FeatureProps is the canonical property set every loaded feature is mapped
// to. Source files captured at different delimitation epochs key the same
// values under different property names; AdaptProps folds them all into this
// one shape so downstream code never touches raw vintage keys.
type FeatureProps struct {
	StateName    string `json:"stateName,omitempty"`
	PCName       string `json:"pcName,omitempty"`
	PCNo         int    `json:"pcNo,omitempty"`
	ACName       string `json:"acName,omitempty"`
	ACNo         int    `json:"acNo,omitempty"`
	DistrictName string `json:"districtName,omitempty"`
	Reservation  string `json:"reservation,omitempty"`
}

// Feature is a single boundary polygon with adapted properties.
// Geometry is kept opaque; this core never inspects coordinates.
type Feature struct {
	Type     string          `json:"type"`
	Props    FeatureProps    `json:"properties"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
}

// IsValid reports whether the feature carries both geometry and at least one
// identifying name. Features failing this are dropped at load time.
func (f Feature) IsValid() bool {
	if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
		return false
	}
	p := f.Props
	return p.StateName != "" || p.PCName != "" || p.ACName != "" || p.DistrictName != ""
}

// FeatureCollection is the wrapped GeoJSON form all payloads are normalized
// to, whether served wrapped or as a bare feature array.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// rawFeature mirrors a feature as it appears on the wire, before property
// adaptation.
type rawFeature struct {
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Geometry   json.RawMessage            `json:"geometry"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

// UnmarshalJSON accepts either a wrapped {type, features} object or a bare
// array of features, and adapts every feature's vintage property names into
// the canonical FeatureProps shape.
func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	var raw rawCollection

	// Wrapped form first; fall back to a bare feature array.
	if err := json.Unmarshal(data, &raw); err != nil {
		var bare []rawFeature
		if err2 := json.Unmarshal(data, &bare); err2 != nil {
			return err
		}
		raw.Features = bare
	}

	fc.Type = "FeatureCollection"
	fc.Features = make([]Feature, 0, len(raw.Features))
	for _, rf := range raw.Features {
		if rf.Properties == nil {
			continue
		}
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Props:    AdaptProps(rf.Properties),
			Geometry: rf.Geometry,
		})
	}
	return nil
}

// Property name variants observed across source vintages. The canonical
// names lead each list so that payloads already adapted once, such as
// cached re-marshaled collections, round-trip unchanged.
var (
	stateNameKeys    = []string{"stateName", "state_ut_name", "STATE_NAME", "ST_NAME", "st_name", "State_Name", "stname"}
	pcNameKeys       = []string{"pcName", "PC_NAME", "pc_name", "Pc_Name", "PARLIAMENT", "ls_seat_name"}
	pcNoKeys         = []string{"pcNo", "PC_NO", "pc_no", "PC_CODE"}
	acNameKeys       = []string{"acName", "AC_NAME", "ac_name", "Ac_Name", "ASSEMBLY", "cons_name"}
	acNoKeys         = []string{"acNo", "AC_NO", "ac_no", "AC_CODE", "cons_code"}
	districtNameKeys = []string{"districtName", "DIST_NAME", "dist_name", "District", "district", "DISTRICT", "dtname"}
	reservationKeys  = []string{"reservation", "RES", "res", "STATUS"}
)

// AdaptProps maps one raw property bag into the canonical FeatureProps,
// trying each known vintage key in order.
func AdaptProps(props map[string]json.RawMessage) FeatureProps {
	return FeatureProps{
		StateName:    firstString(props, stateNameKeys),
		PCName:       firstString(props, pcNameKeys),
		PCNo:         firstInt(props, pcNoKeys),
		ACName:       firstString(props, acNameKeys),
		ACNo:         firstInt(props, acNoKeys),
		DistrictName: firstString(props, districtNameKeys),
		Reservation:  firstString(props, reservationKeys),
	}
}

func firstString(props map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		raw, ok := props[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(props map[string]json.RawMessage, keys []string) int {
	for _, k := range keys {
		raw, ok := props[k]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		// Some vintages serialize codes as strings.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, err := strconv.Atoi(s); err == nil {
				return n
			}
		}
	}
	return 0
}
