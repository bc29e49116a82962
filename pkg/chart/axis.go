package chart

import "math"

// DefaultTicks is the tick count used when a caller passes fewer than two.
const DefaultTicks = 5

// Tick is one labeled axis position.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Axis describes a numeric or categorical axis.
type Axis struct {
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	Step       float64  `json:"step"`
	Ticks      []Tick   `json:"ticks"`
	Categories []string `json:"categories,omitempty"`
}

// NiceAxis returns bounds covering [min, max] rounded outward to a nice
// step, with ticks on every multiple of the step. A zero-width range is
// widened by one step on each side; non-finite input yields [0, 1].
func NiceAxis(min, max float64, maxTicks int) Axis {
	if maxTicks < 2 {
		maxTicks = DefaultTicks
	}
	if !finite(min) || !finite(max) {
		min, max = 0, 1
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		d := math.Abs(min)
		if d == 0 {
			d = 1
		}
		step := niceNum(d/float64(maxTicks-1), true)
		min, max = min-step, max+step
	}

	span := niceNum(max-min, false)
	step := niceNum(span/float64(maxTicks-1), true)
	lo := math.Floor(min/step) * step
	hi := math.Ceil(max/step) * step

	decimals := 0
	if e := -int(math.Floor(math.Log10(step))); e > 0 {
		decimals = e
	}
	n := int(math.Round((hi-lo)/step)) + 1
	ticks := make([]Tick, n)
	for i := range ticks {
		v := roundTo(lo+float64(i)*step, decimals)
		ticks[i] = Tick{Value: v, Label: formatTick(v)}
	}
	return Axis{Min: roundTo(lo, decimals), Max: roundTo(hi, decimals), Step: step, Ticks: ticks}
}

// CategoricalAxis places labels at integer positions 0..n-1.
func CategoricalAxis(labels []string) Axis {
	a := Axis{Step: 1, Categories: labels, Ticks: make([]Tick, len(labels))}
	for i, l := range labels {
		a.Ticks[i] = Tick{Value: float64(i), Label: l}
	}
	if len(labels) > 0 {
		a.Max = float64(len(labels) - 1)
	}
	return a
}

// niceNum returns a 1, 2 or 5 multiple of a power of ten close to x,
// rounding to the nearest candidate or taking the ceiling.
func niceNum(x float64, round bool) float64 {
	exp := int(math.Floor(math.Log10(x)))
	f := x / math.Pow10(exp)
	var nf float64
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 3:
			nf = 2
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f <= 1:
			nf = 1
		case f <= 2:
			nf = 2
		case f <= 5:
			nf = 5
		default:
			nf = 10
		}
	}
	return nf * math.Pow10(exp)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
