package normalize

import (
	"testing"

	"cloud.google.com/go/civil"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want civil.Date
		ok   bool
	}{
		{name: "US slashes", raw: "03/01/2024", want: civil.Date{Year: 2024, Month: 3, Day: 1}, ok: true},
		{name: "ISO", raw: "2024-03-01", want: civil.Date{Year: 2024, Month: 3, Day: 1}, ok: true},
		{name: "day-mon-year", raw: "01-Mar-2024", want: civil.Date{Year: 2024, Month: 3, Day: 1}, ok: true},
		{name: "ISO slashes", raw: "2024/03/01", want: civil.Date{Year: 2024, Month: 3, Day: 1}, ok: true},
		{name: "long month", raw: "Mar 1, 2024", want: civil.Date{Year: 2024, Month: 3, Day: 1}, ok: true},
		{name: "whitespace", raw: " 2024-03-01 ", want: civil.Date{Year: 2024, Month: 3, Day: 1}, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "not a date", ok: false},
		{name: "out of range month", raw: "13/40/2024", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.raw, nil, 0)
			if ok != tt.ok {
				t.Fatalf("Date(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !ok {
				return
			}
			if *got != tt.want {
				t.Errorf("Date(%q) = %v, want %v", tt.raw, *got, tt.want)
			}
		})
	}
}

// TestDateYearPivot pins down the two-digit-year convention: yy <= pivot maps
// into the 2000s, everything above into the 1900s. The rule is ambiguous by
// nature, which is exactly why it is tested literally.
func TestDateYearPivot(t *testing.T) {
	tests := []struct {
		raw   string
		pivot int
		want  int
	}{
		{raw: "03/01/00", pivot: 49, want: 2000},
		{raw: "03/01/24", pivot: 49, want: 2024},
		{raw: "03/01/49", pivot: 49, want: 2049},
		{raw: "03/01/50", pivot: 49, want: 1950},
		{raw: "03/01/99", pivot: 49, want: 1999},
		// A different pivot moves the boundary.
		{raw: "03/01/75", pivot: 80, want: 2075},
		{raw: "03/01/85", pivot: 80, want: 1985},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Date(tt.raw, nil, tt.pivot)
			if !ok {
				t.Fatalf("Date(%q) did not parse", tt.raw)
			}
			if got.Year != tt.want {
				t.Errorf("Date(%q, pivot=%d) year = %d, want %d", tt.raw, tt.pivot, got.Year, tt.want)
			}
		})
	}
}

// TestDatePreferredLayout checks that the inference-winning layout takes
// priority over the fallback list for ambiguous values.
func TestDatePreferredLayout(t *testing.T) {
	// 02/03 is Feb 3 under the fallback order, but Mar 2 when the sample
	// established a day-first layout.
	got, ok := Date("02/03/2024", []string{"02/01/2006"}, 0)
	if !ok {
		t.Fatal("Date did not parse")
	}
	if got.Month != 3 || got.Day != 2 {
		t.Errorf("Date = %v, want 2024-03-02", *got)
	}
}

func TestDetectLayout(t *testing.T) {
	layout, ok := DetectLayout("03/15/2024")
	if !ok || layout != "01/02/2006" {
		t.Errorf("DetectLayout = %q, %v; want 01/02/2006, true", layout, ok)
	}

	layout, ok = DetectLayout("2024-03-15")
	if !ok || layout != "2006-01-02" {
		t.Errorf("DetectLayout = %q, %v; want 2006-01-02, true", layout, ok)
	}

	if _, ok := DetectLayout("nope"); ok {
		t.Error("DetectLayout matched garbage")
	}
}
