package types

import (
	"encoding/json"
	"testing"
)

const testGeom = `{"type":"Polygon","coordinates":[[[80.2,13.1],[80.3,13.1],[80.3,13.2],[80.2,13.1]]]}`

func TestFeatureCollection_UnmarshalWrapped(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"AC_NAME":"Villivakkam","AC_NO":11},"geometry":` + testGeom + `}
	]}`)

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("fc = %+v", fc)
	}
	if fc.Features[0].Props.ACName != "Villivakkam" || fc.Features[0].Props.ACNo != 11 {
		t.Errorf("props = %+v", fc.Features[0].Props)
	}
}

func TestFeatureCollection_UnmarshalBareArray(t *testing.T) {
	data := []byte(`[
		{"type":"Feature","properties":{"PC_NAME":"Chennai North","PC_NO":2},"geometry":` + testGeom + `}
	]`)

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Bare arrays are normalized to the wrapped form.
	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q, want FeatureCollection", fc.Type)
	}
	if len(fc.Features) != 1 || fc.Features[0].Props.PCName != "Chennai North" {
		t.Fatalf("features = %+v", fc.Features)
	}
}

func TestFeatureCollection_MarshalUnmarshalRoundTrip(t *testing.T) {
	orig := FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{
			{
				Type: "Feature",
				Props: FeatureProps{
					StateName:    "Tamil Nadu",
					PCName:       "Chennai North",
					PCNo:         2,
					ACName:       "Villivakkam",
					ACNo:         11,
					DistrictName: "Chennai",
					Reservation:  "SC",
				},
				Geometry: json.RawMessage(testGeom),
			},
		},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// The canonical form a cache stores must decode back to itself, not be
	// mistaken for an unknown vintage and stripped to empty props.
	var back FeatureCollection
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(back.Features))
	}
	if back.Features[0].Props != orig.Features[0].Props {
		t.Errorf("props = %+v, want %+v", back.Features[0].Props, orig.Features[0].Props)
	}
	if !back.Features[0].IsValid() {
		t.Error("round-tripped feature reported invalid")
	}
}

func TestAdaptProps_VintageKeys(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(FeatureProps) bool
	}{
		{"uppercase state", `{"ST_NAME":"Tamil Nadu"}`, func(p FeatureProps) bool { return p.StateName == "Tamil Nadu" }},
		{"verbose state", `{"state_ut_name":"Kerala"}`, func(p FeatureProps) bool { return p.StateName == "Kerala" }},
		{"cons_name vintage", `{"cons_name":"Srirangam","cons_code":142}`, func(p FeatureProps) bool { return p.ACName == "Srirangam" && p.ACNo == 142 }},
		{"string coded number", `{"AC_NO":"11"}`, func(p FeatureProps) bool { return p.ACNo == 11 }},
		{"district vintage", `{"dtname":"Chennai"}`, func(p FeatureProps) bool { return p.DistrictName == "Chennai" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var props map[string]json.RawMessage
			if err := json.Unmarshal([]byte(tt.raw), &props); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p := AdaptProps(props); !tt.check(p) {
				t.Errorf("AdaptProps(%s) = %+v", tt.raw, p)
			}
		})
	}
}

func TestFeature_IsValid(t *testing.T) {
	valid := Feature{Props: FeatureProps{ACName: "Villivakkam"}, Geometry: json.RawMessage(testGeom)}
	if !valid.IsValid() {
		t.Error("valid feature rejected")
	}

	noGeometry := Feature{Props: FeatureProps{ACName: "Villivakkam"}}
	if noGeometry.IsValid() {
		t.Error("geometry-less feature accepted")
	}

	nullGeometry := Feature{Props: FeatureProps{ACName: "Villivakkam"}, Geometry: json.RawMessage("null")}
	if nullGeometry.IsValid() {
		t.Error("null-geometry feature accepted")
	}

	noName := Feature{Geometry: json.RawMessage(testGeom)}
	if noName.IsValid() {
		t.Error("nameless feature accepted")
	}
}
