package nlp

import "testing"

func TestLikeNum(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"54", true},
		{"1,000", true},
		{"3.5", true},
		{"-7", true},
		{"1/2", true},
		{"five", true},
		{"First", true},
		{"3rd", true},
		{"server01", false},
		{"a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LikeNum(tt.text); got != tt.want {
			t.Errorf("LikeNum(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "with", "show", "in"} {
		if !IsStopWord(w) {
			t.Errorf("expected %q to be a stop word", w)
		}
	}
	for _, w := range []string{"maintenance", "asset", "siemens"} {
		if IsStopWord(w) {
			t.Errorf("expected %q not to be a stop word", w)
		}
	}
}
