// Package chartdata turns the paper's literal chart series into the scaled
// numbers both chart renderers draw: the terminal charts in pkg/ui and the
// SVG/PNG snapshots in pkg/export.
package chartdata

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/neuralx/internal/content"
)

// Accuracy domain of the landing area chart, in percent.
const (
	AccuracyMin = 80.0
	AccuracyMax = 100.0
)

// Titles and captions shared by every rendition of the charts.
const (
	AccuracyTitle   = "Crecimiento de Rendimiento"
	ScatterTitle    = "Exploración del Espacio Latente"
	ScatterCaption  = "Visualizando la proyección 2D de la variedad de arquitectura de alta dimensión. El tamaño indica el rendimiento."
	ScatterLegend   = "Arquitecturas"
	LatencyTitle    = "Latencia vs Generación"
	LatencyCaption  = "Latencia de inferencia promedio (ms) a través de diferentes generaciones de la búsqueda evolutiva."
	ScatterXLabel   = "PC1"
	ScatterYLabel   = "PC2"
	ScatterZLabel   = "Precisión"
	LatencyUnit     = "ms"
	SizeClassCount  = 3
	PrimaryColorHex = "#136DEC"
	GridColorHex    = "#334155"
	AxisColorHex    = "#94A3B8"
)

// Labels returns the generation names in order.
func Labels(gens []content.GenerationPoint) []string {
	out := make([]string, len(gens))
	for i, g := range gens {
		out[i] = g.Name
	}
	return out
}

// Accuracy returns the accuracy series.
func Accuracy(gens []content.GenerationPoint) []float64 {
	out := make([]float64, len(gens))
	for i, g := range gens {
		out[i] = g.Accuracy
	}
	return out
}

// Latency returns the latency series.
func Latency(gens []content.GenerationPoint) []float64 {
	out := make([]float64, len(gens))
	for i, g := range gens {
		out[i] = g.Latency
	}
	return out
}

// XYZ splits scatter points into coordinate slices.
func XYZ(pts []content.ScatterPoint) (xs, ys, zs []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	zs = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return xs, ys, zs
}

// NiceMax rounds v up to 1, 2, 2.5 or 5 times a power of ten, so axis ticks
// land on round numbers. Non-positive input yields 1.
func NiceMax(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}

// SeriesMax is the nice upper bound of values.
func SeriesMax(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	return NiceMax(floats.Max(values))
}

// Resample linearly interpolates values onto n evenly spaced positions that
// span the series from first to last sample.
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	pos := floats.Span(make([]float64, n), 0, float64(len(values)-1))
	for i, x := range pos {
		lo := int(math.Floor(x))
		if lo >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		f := x - float64(lo)
		out[i] = values[lo]*(1-f) + values[lo+1]*f
	}
	return out
}

// Normalize maps v from [lo, hi] onto [0, 1], clamped.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

// SizeClasses buckets zs into SizeClassCount tertiles: 0 for the smallest
// third, 2 for the largest.
func SizeClasses(zs []float64) []int {
	out := make([]int, len(zs))
	if len(zs) == 0 {
		return out
	}
	sorted := append([]float64(nil), zs...)
	sort.Float64s(sorted)
	q1 := stat.Quantile(1.0/3, stat.Empirical, sorted, nil)
	q2 := stat.Quantile(2.0/3, stat.Empirical, sorted, nil)
	for i, z := range zs {
		switch {
		case z <= q1:
			out[i] = 0
		case z <= q2:
			out[i] = 1
		default:
			out[i] = 2
		}
	}
	return out
}

// MarkerRadius maps z onto the [60, 400] area range of the web chart and
// returns the radius in the same units, scaled by unit.
func MarkerRadius(z, zMin, zMax, unit float64) float64 {
	area := 60 + Normalize(z, zMin, zMax)*(400-60)
	return math.Sqrt(area/math.Pi) * unit
}

// Summary reports mean and standard deviation of a series, used in exports.
func Summary(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.MeanStdDev(values, nil)
}
