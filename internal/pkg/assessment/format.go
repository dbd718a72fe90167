package assessment

import (
	"math"
	"strconv"
)

// DisplayMode selects how a pass rate is presented.
type DisplayMode string

const (
	ModeBinary     DisplayMode = "binary"
	ModePercentage DisplayMode = "percentage"
	ModeCombined   DisplayMode = "combined"
)

// DefaultPassThreshold is the pass/fail boundary used when a program does
// not configure its own.
const DefaultPassThreshold = 70

// Classification of a formatted rate against the threshold.
type Classification string

const (
	ClassPass   Classification = "pass"
	ClassFail   Classification = "fail"
	ClassNoData Classification = "nodata"
)

// Formatted is a presentation-ready rendering of a pass rate.
type Formatted struct {
	Text  string         `json:"text"`
	Class Classification `json:"class"`
}

// ValidDisplayMode reports whether mode is one of the three known modes.
func ValidDisplayMode(mode DisplayMode) bool {
	switch mode {
	case ModeBinary, ModePercentage, ModeCombined:
		return true
	}
	return false
}

// Format renders a raw pass rate for display. A nil rate means "no data" and
// renders as an em dash in every mode. The threshold boundary is inclusive:
// a rate exactly at the threshold passes. A garbage threshold (NaN, Inf)
// falls back to DefaultPassThreshold; unknown modes render as combined.
// Format never fails, whatever the input.
func Format(rate *float64, mode DisplayMode, threshold float64) Formatted {
	if rate == nil {
		return Formatted{Text: "—", Class: ClassNoData}
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		threshold = DefaultPassThreshold
	}

	passed := *rate >= threshold
	class := ClassFail
	letter := "U"
	if passed {
		class = ClassPass
		letter = "S"
	}
	percent := strconv.Itoa(int(math.Round(*rate))) + "%"

	switch mode {
	case ModeBinary:
		return Formatted{Text: letter, Class: class}
	case ModePercentage:
		return Formatted{Text: percent, Class: class}
	default:
		return Formatted{Text: letter + " (" + percent + ")", Class: class}
	}
}
