package duration

import "testing"

func TestDays(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"365", 365, false},
		{"90d", 90, false},
		{"12w", 84, false},
		{"6mo", 180, false},
		{"1y", 365, false},
		{"2years", 730, false},
		{"soon", 0, true},
		{"10fortnights", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Days(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Days(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Days(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
