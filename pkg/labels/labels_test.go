package labels

import "testing"

func TestToCategorical(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   float64
		want int
	}{
		{"strongly negative", -1.5, Down},
		{"exactly at lower threshold", -0.3, Down},
		{"just above lower threshold", -0.29999, Flat},
		{"zero", 0, Flat},
		{"just below upper threshold", 0.29999, Flat},
		{"exactly at upper threshold", 0.3, Flat},
		{"just above upper threshold", 0.30001, Up},
		{"strongly positive", 2.0, Up},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToCategorical(tc.in); got != tc.want {
				t.Errorf("ToCategorical(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestToCategoricalBatch(t *testing.T) {
	t.Parallel()

	got := ToCategoricalBatch([]float64{-0.5, 0.0, 0.5})
	want := []int{Down, Flat, Up}
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDirection(t *testing.T) {
	t.Parallel()

	if Direction(Down) != "DOWN" || Direction(Up) != "UP" || Direction(Flat) != "FLAT" {
		t.Error("unexpected direction names")
	}
	// Out-of-range classes fall back to FLAT
	if Direction(7) != "FLAT" {
		t.Errorf("Direction(7) = %s, want FLAT", Direction(7))
	}
}
