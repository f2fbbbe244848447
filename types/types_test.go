package types

import (
	"errors"
	"testing"
)

func TestBoothIDFor(t *testing.T) {
	if got := BoothIDFor("TN-001", 42); got != "TN-001-42" {
		t.Errorf("BoothIDFor = %q, want TN-001-42", got)
	}
}

func TestBoothHasLocation(t *testing.T) {
	lat, lng := 13.0827, 80.2707
	with := Booth{Lat: &lat, Lng: &lng}
	without := Booth{Lat: &lat}

	if !with.HasLocation() {
		t.Error("booth with both coordinates reported no location")
	}
	if without.HasLocation() {
		t.Error("booth with only latitude reported a location")
	}
}

func TestCandidateIsNOTA(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"NOTA", true},
		{"None of the Above", true},
		{"Nota Kumar", false},
		{"", false},
	}
	for _, tt := range tests {
		c := CandidateResult{Name: tt.name}
		if got := c.IsNOTA(); got != tt.want {
			t.Errorf("IsNOTA(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestACIsPlaceholder(t *testing.T) {
	if !(ACEntity{ID: "TN-013"}).IsPlaceholder() {
		t.Error("nameless AC not treated as placeholder")
	}
	if (ACEntity{ID: "TN-011", Name: "Villivakkam"}).IsPlaceholder() {
		t.Error("named AC treated as placeholder")
	}
}

func TestStateIsUT(t *testing.T) {
	if !(StateEntity{Type: EntityUT}).IsUT() {
		t.Error("UT not recognized")
	}
	if (StateEntity{Type: EntityState}).IsUT() {
		t.Error("state recognized as UT")
	}
}

func TestReservation(t *testing.T) {
	if !(ACEntity{Type: ReservationSC}).IsReserved() {
		t.Error("SC seat not reserved")
	}
	if (ACEntity{Type: ReservationGeneral}).IsReserved() {
		t.Error("general seat reserved")
	}
}

func TestWrapError(t *testing.T) {
	err := WrapError(ErrNotFound, "district TN-D-CH")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("wrapped error lost its sentinel: %v", err)
	}
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) returned non-nil")
	}
}
