package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// DelayDistribution samples how many ticks a triggered effect waits before it lands.
type DelayDistribution interface {
	// Sample returns a strictly positive delay in ticks.
	Sample(rng *rand.Rand) int
}

// ConstantDelay always returns the same delay.
type ConstantDelay struct {
	D int
}

func (c ConstantDelay) Sample(_ *rand.Rand) int {
	return c.D
}

func (c ConstantDelay) String() string {
	return fmt.Sprintf("constant(%d)", c.D)
}

// GaussianDelay draws round(N(Mean, StdDev)) and rejects draws that are not
// strictly positive. Retries are unbounded; with a positive mean this
// terminates after a handful of draws in practice.
type GaussianDelay struct {
	Mean   float64
	StdDev float64
}

func (g GaussianDelay) Sample(rng *rand.Rand) int {
	for {
		d := int(math.Floor(rng.NormFloat64()*g.StdDev + g.Mean + 0.5))
		if d > 0 {
			return d
		}
	}
}

func (g GaussianDelay) String() string {
	return fmt.Sprintf("gaussian(%g, %g)", g.Mean, g.StdDev)
}

// DelaySpec parameterizes a delay distribution in scenario files.
type DelaySpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// validDelayTypes lists the distribution names NewDelayDistribution accepts.
var validDelayTypes = map[string]bool{
	"constant": true, "gaussian": true,
}

// IsValidDelayType reports whether name is a recognized delay distribution.
func IsValidDelayType(name string) bool {
	return validDelayTypes[name]
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		v, ok := params[k]
		if !ok {
			return fmt.Errorf("delay distribution requires parameter %q", k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("delay parameter %q must be finite, got %f", k, v)
		}
	}
	return nil
}

// NewDelayDistribution creates a DelayDistribution from a DelaySpec.
func NewDelayDistribution(spec DelaySpec) (DelayDistribution, error) {
	switch spec.Type {
	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		v := spec.Params["value"]
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("constant delay must be a whole number of ticks, got %g", v)
		}
		if v < 1 {
			return nil, fmt.Errorf("constant delay must be >= 1, got %g", v)
		}
		return ConstantDelay{D: int(v)}, nil

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		mean, std := spec.Params["mean"], spec.Params["std_dev"]
		if std < 0 {
			return nil, fmt.Errorf("gaussian std_dev must be non-negative, got %f", std)
		}
		if mean <= 0 {
			return nil, fmt.Errorf("gaussian mean must be positive, got %f", mean)
		}
		// Without spread every draw rounds to the mean.
		if std == 0 && math.Floor(mean+0.5) < 1 {
			return nil, fmt.Errorf("gaussian delay with std_dev 0 needs mean >= 0.5, got %f", mean)
		}
		return GaussianDelay{Mean: mean, StdDev: std}, nil

	default:
		return nil, fmt.Errorf("unknown delay distribution type %q", spec.Type)
	}
}
