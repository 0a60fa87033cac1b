package country

import "testing"

func TestCode(t *testing.T) {
	tests := []struct {
		acronym string
		want    uint8
	}{
		{"jp", 111},
		{"JP", 111},
		{"us", 225},
		{"ru", 185},
		{"kr", 119},
		{"oc", 1},
		{"mf", 252},
		{"xx", 0},
		{"", 0},
		{"zz", 0},
	}

	for _, tt := range tests {
		if got := Code(tt.acronym); got != tt.want {
			t.Errorf("Code(%q) = %d, want %d", tt.acronym, got, tt.want)
		}
	}
}
