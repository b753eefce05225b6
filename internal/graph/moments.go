package graph

import "github.com/openingrank/trueskill/internal/gaussian"

// Vwin and Wwin are the moment-matching functions used by Truncate for a
// decisive (non-draw) comparison between two team performances: t is the
// standardized mean of their difference, e the standardized draw margin.
func Vwin(t, e float64) float64 {
	denom := gaussian.CDF(t - e)
	if denom < 1e-300 {
		return -(t - e)
	}
	return gaussian.PDF(t-e) / denom
}

// Wwin is the companion second-moment function to Vwin.
func Wwin(t, e float64) float64 {
	v := Vwin(t, e)
	return v * (v + t - e)
}

// Vdraw and Wdraw are the moment-matching functions for a drawn comparison,
// margined by e.
func Vdraw(t, e float64) float64 {
	denom := gaussian.CDF(e-t) - gaussian.CDF(-e-t)
	if denom < 1e-300 {
		return -t
	}
	return (gaussian.PDF(-e-t) - gaussian.PDF(e-t)) / denom
}

// Wdraw is the companion second-moment function to Vdraw.
func Wdraw(t, e float64) float64 {
	denom := gaussian.CDF(e-t) - gaussian.CDF(-e-t)
	if denom < 1e-300 {
		return 1
	}
	v := Vdraw(t, e)
	return v*v + ((e-t)*gaussian.PDF(e-t)+(e+t)*gaussian.PDF(-e-t))/denom
}
