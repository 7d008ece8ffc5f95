package hours

import (
	"math"
	"regexp"
	"strconv"
)

// DefaultDuration is used for entries that carry no duration.
const DefaultDuration = "PT0H"

var durationPattern = regexp.MustCompile(`^PT(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?$`)

// ParseDuration converts a PT[<h>H][<m>M] duration into decimal hours rounded to two
// places. Anything else yields 0.
func ParseDuration(s string) float64 {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	var h, min float64
	if m[1] != "" {
		h, _ = strconv.ParseFloat(m[1], 64)
	}
	if m[2] != "" {
		min, _ = strconv.ParseFloat(m[2], 64)
	}
	return Round2(h + min/60)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
