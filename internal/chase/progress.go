package chase

import (
	"github.com/vovakirdan/catch-bash/internal/core"
	"github.com/vovakirdan/catch-bash/internal/geo"
)

const (
	DefaultNormalizerKm = 20000.0
	DefaultWinThreshold = 100.0
)

// Evaluator maps runner/chaser distance to a 0-100 progress value.
type Evaluator struct {
	NormalizerKm float64 // distance at which progress reaches 0
	WinThreshold float64 // progress at or above which the chaser wins
}

// DefaultEvaluator returns the standard 20000 km / 100 evaluator.
func DefaultEvaluator() Evaluator {
	return Evaluator{NormalizerKm: DefaultNormalizerKm, WinThreshold: DefaultWinThreshold}
}

func (e Evaluator) normalized() Evaluator {
	if e.NormalizerKm <= 0 {
		e.NormalizerKm = DefaultNormalizerKm
	}
	if e.WinThreshold <= 0 || e.WinThreshold > 100 {
		e.WinThreshold = DefaultWinThreshold
	}
	return e
}

// Progress returns clamp(0, 100, 100 - 100*d/normalizer).
func (e Evaluator) Progress(distanceKm float64) float64 {
	e = e.normalized()
	return core.ClampF(100-100*distanceKm/e.NormalizerKm, 0, 100)
}

// Between returns progress for two coordinates.
func (e Evaluator) Between(a, b geo.LatLng) float64 {
	return e.Progress(geo.Haversine(a, b))
}

// Won reports whether progress has reached the win threshold.
func (e Evaluator) Won(progress float64) bool {
	return progress >= e.normalized().WinThreshold
}

// Progress is DefaultEvaluator().Progress.
func Progress(distanceKm float64) float64 {
	return DefaultEvaluator().Progress(distanceKm)
}
