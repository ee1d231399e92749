package common

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
		wantErr  bool
	}{
		{"simple", "Gophers Of Berlin", "default", "gophers-of-berlin", false},
		{"with special chars", "Sales & Marketing!", "default", "sales-marketing", false},
		{"preserves numbers", "Team 42", "default", "team-42", false},
		{"trims hyphens", "---group---", "default", "group", false},
		{"uses fallback when empty", "", "fallback", "fallback", false},
		{"uses fallback when whitespace only", "   ", "fallback", "fallback", false},
		{"uses fallback when special chars only", "@#$%", "fallback", "fallback", false},
		{"error when both empty", "", "", "", true},
		{"error when both result in empty", "@#$", "!@#", "", true},
		{"already lowercase", "hiking-club", "default", "hiking-club", false},
		{"multiple spaces", "book    club", "default", "book-club", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slugify(tt.input, tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Errorf("Slugify() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("Slugify() = %q, want %q", got, tt.want)
			}
		})
	}
}
