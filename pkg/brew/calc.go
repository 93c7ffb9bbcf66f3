package brew

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/brewtower/pkg/errors"
)

// CalcRequest is the body of a statistics calculation request.
type CalcRequest struct {
	Grains    []Grain `json:"grains"`
	Hops      []Hop   `json:"hops"`
	BatchSize float64 `json:"batch_size"`
}

// WithDefaults returns a copy with a missing batch size replaced by
// DefaultBatchSize.
func (r CalcRequest) WithDefaults() CalcRequest {
	if r.BatchSize == 0 {
		r.BatchSize = DefaultBatchSize
	}
	return r
}

// Validate rejects requests the calculation cannot handle.
func (r CalcRequest) Validate() error {
	if r.BatchSize <= 0 || math.IsInf(r.BatchSize, 0) || math.IsNaN(r.BatchSize) {
		return errors.New(errors.ErrCodeInvalidInput, "batch size must be a positive number, got %g", r.BatchSize)
	}
	return validateIngredients(r.Grains, r.Hops)
}

// Calculate computes rounded recipe statistics for a batch. batchSize must be
// positive.
func Calculate(batchSize float64, grains []Grain, hops []Hop) Stats {
	og := originalGravity(batchSize, grains)
	return Stats{
		OG:  round(og, 3),
		IBU: round(bitterness(batchSize, og, hops), 1),
		SRM: round(color(batchSize, grains), 1),
	}
}

func originalGravity(batchSize float64, grains []Grain) float64 {
	var points float64
	for _, g := range grains {
		points += g.Amount * g.PPG * g.EffectiveEfficiency() / 100 / batchSize
	}
	return 1 + points/1000
}

// bitterness uses the unrounded gravity.
func bitterness(batchSize, og float64, hops []Hop) float64 {
	var ibu float64
	for _, h := range hops {
		utilization := 1.65 * math.Pow(0.000125, og-1) * ((1 - math.Pow(2.718, -0.04*h.Time)) / 4.15)
		aau := h.Alpha / 100 * h.Amount // alpha is a percentage
		ibu += aau * utilization * 7490 / batchSize
	}
	return ibu
}

func color(batchSize float64, grains []Grain) float64 {
	var mcu float64
	for _, g := range grains {
		mcu += g.Amount * g.Lovibond / batchSize
	}
	if mcu <= 0 {
		return 0
	}
	return 1.4922 * math.Pow(mcu, 0.6859)
}

func round(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return v
	}
	return r
}
