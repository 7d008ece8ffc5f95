package hours

import (
	"strconv"
	"testing"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"PT4H30M", 4.5},
		{"PT1H", 1},
		{"PT45M", 0.75},
		{"PT90M", 1.5},
		{"PT1H20M", 1.33},
		{"PT0.5H", 0.5},
		{"PT2.25H15M", 2.5},
		{"PT0H", 0},
		{"PT", 0},
		{"", 0},
		{"garbage", 0},
		{"P1DT2H", 0},
		{"PT2H30S", 0},
		{"pt1h", 0},
		{" PT1H", 0},
		{"PT-1H", 0},
	}
	for _, tc := range cases {
		if got := ParseDuration(tc.in); got != tc.want {
			t.Errorf("ParseDuration(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDurationMatchesHoursPlusMinutes(t *testing.T) {
	t.Parallel()

	for h := 0; h <= 12; h += 3 {
		for m := 0; m < 60; m += 7 {
			s := "PT" + strconv.Itoa(h) + "H" + strconv.Itoa(m) + "M"
			want := Round2(float64(h) + float64(m)/60)
			if got := ParseDuration(s); got != want {
				t.Fatalf("ParseDuration(%q)=%v, want %v", s, got, want)
			}
		}
	}
}
