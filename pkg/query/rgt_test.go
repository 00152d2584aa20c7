package query

import (
	"testing"
)

func TestGranuleNamePattern(t *testing.T) {
	tests := []struct {
		name      string
		shortName string
		rgt       int
		cycle     int
		want      string
		expectErr bool
	}{
		{
			name:      "rgt and cycle",
			shortName: "ATL06",
			rgt:       709,
			cycle:     3,
			want:      "ATL06_??????????????_070903??_*",
		},
		{
			name:      "any cycle",
			shortName: "ATL06",
			rgt:       709,
			cycle:     0,
			want:      "ATL06_??????????????_0709????_*",
		},
		{
			name:      "single digit rgt is zero padded",
			shortName: "ATL08",
			rgt:       7,
			cycle:     12,
			want:      "ATL08_??????????????_000712??_*",
		},
		{
			name:      "max rgt",
			shortName: "ATL06",
			rgt:       MaxRGT,
			cycle:     1,
			want:      "ATL06_??????????????_138701??_*",
		},
		{
			name:      "rgt zero",
			shortName: "ATL06",
			rgt:       0,
			expectErr: true,
		},
		{
			name:      "rgt beyond orbit repeat",
			shortName: "ATL06",
			rgt:       MaxRGT + 1,
			expectErr: true,
		},
		{
			name:      "cycle beyond two digits",
			shortName: "ATL06",
			rgt:       709,
			cycle:     100,
			expectErr: true,
		},
		{
			name:      "missing short name",
			shortName: "",
			rgt:       709,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GranuleNamePattern(tt.shortName, tt.rgt, tt.cycle)

			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error, got pattern %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GranuleNamePattern() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithReferenceGroundTrack(t *testing.T) {
	params, err := New("ATL06").WithVersion("006").WithReferenceGroundTrack(709, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	values := params.Values()
	if got := values.Get("readable_granule_name"); got != "ATL06_??????????????_070903??_*" {
		t.Errorf("readable_granule_name = %q", got)
	}
	if got := values.Get("options[readable_granule_name][pattern]"); got != "true" {
		t.Errorf("pattern option = %q, want true", got)
	}
	if got := values.Get("version"); got != "006" {
		t.Errorf("version = %q, want 006 (existing filters must be preserved)", got)
	}
}

func TestWithReferenceGroundTrack_NoShortName(t *testing.T) {
	_, err := Params{}.WithReferenceGroundTrack(709, 3)
	if err == nil {
		t.Error("Expected error when no short name filter is set")
	}
}
