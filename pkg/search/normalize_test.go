package search

import "testing"

func TestNormalizeWear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Factory New", "Factory New"},
		{"factory new", "Factory New"},
		{"field tested", "Field-Tested"},
		{"FT", "Field-Tested"},
		{"bs", "Battle-Scarred"},
		{"well", "Well-Worn"},
		{"", ""},
		{"pristine", "pristine"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeWear(tt.input); got != tt.want {
				t.Errorf("NormalizeWear(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Phase 2", "Phase 2"},
		{"phase 4", "Phase 4"},
		{"p2", "Phase 2"},
		{"black pearl", "Black Pearl"},
		{"RUBY", "Ruby"},
		{"xyz", "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := NormalizePhase(tt.input); got != tt.want {
				t.Errorf("NormalizePhase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
