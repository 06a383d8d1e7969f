package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national mx number", "55 1234 5678", "+525512345678"},
		{"already e164", "+525512345678", "+525512345678"},
		{"unparseable returns trimmed input", " not-a-number ", "not-a-number"},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDigitCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"55 1234 5678", 10},
		{"+52 (55) 1234-5678", 12},
		{"abc", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := DigitCount(tt.input); got != tt.want {
			t.Fatalf("DigitCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
