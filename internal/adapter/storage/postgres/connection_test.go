package postgres

import "testing"

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"atelier", "%atelier%"},
		{"100%", `%100\%%`},
		{"under_score", `%under\_score%`},
		{`back\slash`, `%back\\slash%`},
		{"", "%%"},
	}
	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
