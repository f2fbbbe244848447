package normalize

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and trim", "  Tamil Nadu  ", "tamil nadu"},
		{"diacritics", "Tamil Nādu", "tamil nadu"},
		{"ampersand", "Dadra & Nagar Haveli", "dadra and nagar haveli"},
		{"punctuation dropped", "Y.S.R. Kadapa", "y s r kadapa"},
		{"collapse whitespace", "North   24  Parganas", "north 24 parganas"},
		{"empty", "", ""},
		{"only punctuation", "...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.in)
			if got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []string{
		"Tamil Nādu",
		"Dadra & Nagar Haveli",
		"VILLIVAKKAM (SC)",
		"  spaced   out  ",
		"",
		"already canonical",
	}
	for _, in := range inputs {
		once := Key(in)
		twice := Key(once)
		if once != twice {
			t.Errorf("Key not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestStripReservationSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Villivakkam (SC)", "Villivakkam"},
		{"Villivakkam (sc)", "Villivakkam"},
		{"Gummidipoondi (ST)", "Gummidipoondi"},
		{"Villivakkam", "Villivakkam"},
		{"Chennai (North)", "Chennai (North)"},
		{"(SC)", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := StripReservationSuffix(tt.in)
		if got != tt.want {
			t.Errorf("StripReservationSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripParens(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ramanathapuram (SC) (New)", "Ramanathapuram"},
		{"Chennai (North)", "Chennai"},
		{"No parens here", "No parens here"},
		{"Unbalanced (open", "Unbalanced"},
		{"", ""},
	}
	for _, tt := range tests {
		got := StripParens(tt.in)
		if got != tt.want {
			t.Errorf("StripParens(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlphaNum(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Y.S.R. Kadapa", "ysrkadapa"},
		{"YSR Kadapa", "ysrkadapa"},
		{"North 24 Parganas", "north24parganas"},
		{"Bengalūru Urban", "bengaluruurban"},
		{"", ""},
	}
	for _, tt := range tests {
		got := AlphaNum(tt.in)
		if got != tt.want {
			t.Errorf("AlphaNum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tamil Nādu", "tamil-nadu"},
		{"Chennai North", "chennai-north"},
		{"Dadra & Nagar Haveli", "dadra-and-nagar-haveli"},
	}
	for _, tt := range tests {
		got := Slug(tt.in)
		if got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPhoneticKey(t *testing.T) {
	// Spelling variants that should reduce to the same phonetic form.
	pairs := [][2]string{
		{"Thiruvallur", "Tiruvallur"},
		{"Berhampur", "Brahmapur"},
		{"Yadgir", "Yadagir"},
	}
	for _, p := range pairs {
		a, b := PhoneticKey(p[0]), PhoneticKey(p[1])
		if a == "" || a != b {
			t.Errorf("PhoneticKey(%q) = %q, PhoneticKey(%q) = %q, want equal non-empty",
				p[0], a, p[1], b)
		}
	}

	if got := PhoneticKey(""); got != "" {
		t.Errorf("PhoneticKey(\"\") = %q, want \"\"", got)
	}

	// Distinct names must stay distinct.
	if PhoneticKey("Chennai") == PhoneticKey("Madurai") {
		t.Error("PhoneticKey collapsed unrelated names")
	}
}
