package rng

import (
	"errors"
	"math"
	"sync"

	"github.com/scenarioforge/core/model"
)

// ErrDiscreteMissingParams is returned by Sample for a "discrete"
// distribution whose values or probabilities are absent.
var ErrDiscreteMissingParams = errors.New("rng: discrete distribution requires values and probabilities")

var (
	unknownWarnOnce sync.Map // distribution type (string) -> struct{}, for the one-time-per-process warning
)

// UnknownDistributionWarning reports whether the one-time "unknown
// distribution" warning for tag is still due in this process: it
// returns true on the first call for a tag (marking it as warned) and
// false on every later call.
func UnknownDistributionWarning(tag string) bool {
	_, alreadyWarned := unknownWarnOnce.LoadOrStore(tag, struct{}{})
	return !alreadyWarned
}

// Sample draws one value from the distribution described by cfg, using
// draw() as the single shared uniform [0,1) source. An unrecognized
// cfg.Type returns a uniform [0,1) sample and reports shouldWarn=true
// on every call; UnknownDistributionWarning is what limits the warning
// to once per tag per process.
func Sample(cfg *model.DistributionConfig, draw func() float64) (value float64, shouldWarn bool, err error) {
	switch cfg.Type {
	case "normal":
		mean := cfg.Param("mean", 0)
		std := cfg.ParamAny(1, "stddev", "std", "stdDev")
		return mean + std*boxMuller(draw), false, nil

	case "uniform":
		lo := cfg.Param("min", 0)
		hi := cfg.Param("max", 1)
		return lo + draw()*(hi-lo), false, nil

	case "uniformInt":
		lo := cfg.Param("min", 0)
		hi := cfg.Param("max", 10)
		return math.Floor(lo + draw()*(hi-lo+1)), false, nil

	case "bernoulli":
		p := cfg.Param("p", 0.5)
		if draw() < p {
			return 1, false, nil
		}
		return 0, false, nil

	case "triangular":
		lo := cfg.Param("min", 0)
		hi := cfg.Param("max", 1)
		mode := cfg.ParamAny((lo+hi)/2, "mode")
		return triangular(draw(), lo, hi, mode), false, nil

	case "beta":
		alpha := cfg.Param("alpha", 2)
		beta := cfg.Param("beta", 2)
		return jonkBeta(draw, alpha, beta), false, nil

	case "truncatedNormal":
		mean := cfg.Param("mean", 0)
		std := cfg.ParamAny(1, "stddev", "std", "stdDev")
		lo := cfg.Param("min", math.Inf(-1))
		hi := cfg.Param("max", math.Inf(1))
		for {
			v := mean + std*boxMuller(draw)
			if v >= lo && v <= hi {
				return v, false, nil
			}
		}

	case "lognormal":
		mu := cfg.ParamAny(0, "mu", "mean")
		sigma := cfg.ParamAny(1, "sigma", "stdDev")
		return math.Exp(mu + sigma*boxMuller(draw)), false, nil

	case "exponential":
		rate := cfg.Param("rate", 1)
		return -math.Log(1-draw()) / rate, false, nil

	case "poisson":
		lambda := cfg.Param("lambda", 1)
		return knuthPoisson(draw, lambda), false, nil

	case "discrete":
		if len(cfg.Values) == 0 || len(cfg.Probabilities) == 0 {
			return 0, false, ErrDiscreteMissingParams
		}
		return discreteInverseCDF(draw(), cfg.Values, cfg.Probabilities), false, nil

	case "compound":
		mu := cfg.ParamAny(0, "mu", "mean")
		sigma := cfg.ParamAny(1, "sigma", "stdDev")
		return math.Exp(mu + sigma*boxMuller(draw)), false, nil

	default:
		return draw(), true, nil
	}
}

// boxMuller returns one standard-normal draw (mean 0, stddev 1) from
// two uniforms consumed off draw, via the polar Box-Muller transform
// using cosine only (the standard single-value form).
func boxMuller(draw func() float64) float64 {
	u1, u2 := draw(), draw()
	if u1 <= 0 {
		u1 = 1e-12 // avoid log(0)
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// triangular applies the standard inverse-CDF for a triangular
// distribution on [lo, hi] with the given mode.
func triangular(u, lo, hi, mode float64) float64 {
	fc := (mode - lo) / (hi - lo)
	if u < fc {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

// jonkBeta draws from Beta(alpha, beta) via Johnk's rejection method:
// repeatedly draw u,v uniform, let x=u^(1/alpha), y=v^(1/beta); accept
// x/(x+y) the first time x+y<=1.
func jonkBeta(draw func() float64, alpha, beta float64) float64 {
	for {
		u, v := draw(), draw()
		x := math.Pow(u, 1/alpha)
		y := math.Pow(v, 1/beta)
		if s := x + y; s <= 1 && s > 0 {
			return x / s
		}
	}
}

// knuthPoisson is Knuth's multiplicative algorithm for a Poisson(lambda)
// draw: count uniform draws until their running product drops below
// e^-lambda.
func knuthPoisson(draw func() float64, lambda float64) float64 {
	l := math.Exp(-lambda)
	k := 0.0
	p := 1.0
	for {
		k++
		p *= draw()
		if p <= l {
			return k - 1
		}
	}
}

// discreteInverseCDF walks the cumulative probability mass until it
// exceeds u, returning the corresponding value. Probabilities need not
// be pre-normalized; the walk uses the running sum directly so a
// caller who passes weights rather than a normalized distribution still
// gets sensible (if not strictly uniform-draw-calibrated) behavior.
func discreteInverseCDF(u float64, values, probabilities []float64) float64 {
	if len(values) == 0 || len(probabilities) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range probabilities {
		total += p
	}
	if total <= 0 {
		return values[0]
	}
	target := u * total
	cum := 0.0
	for i, p := range probabilities {
		cum += p
		if target < cum && i < len(values) {
			return values[i]
		}
	}
	return values[len(values)-1]
}
