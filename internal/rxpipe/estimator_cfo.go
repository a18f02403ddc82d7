// Package rxpipe implements the synchronized-receive pipeline of §4.5
// (C13): OFDM demodulation, channel estimation, PCC/PDC equalization and
// decode, plus the CFO/STO/SNR/AoA estimators that refine the coarse
// synchronization report.
//
// Grounded on original_source/lib/include/dectnrp/phy/rx/rx_synced/
// rx_synced.hpp, processing_stage.hpp, channel_antenna.hpp,
// estimator_cfo.hpp, estimator_sto.hpp, estimator_snr.hpp,
// estimator_aoa.hpp.
package rxpipe

import "math"

// EstimateResidualCFO refines the coarse CFO estimate (radians/sample,
// from internal/sync's autocorrelator) using the phase drift observed
// between two DRS symbols separated by deltaSymbols OFDM symbols at
// nbDFT+nbCP samples each. Grounded on estimator_cfo_t's "use the known
// pilot phase reference across repeated observations" approach.
func EstimateResidualCFO(phaseDelta float64, deltaSymbols int, samplesPerSymbol int) float64 {
	if deltaSymbols == 0 || samplesPerSymbol == 0 {
		return 0
	}
	return phaseDelta / float64(deltaSymbols*samplesPerSymbol)
}

// CompensateCFO derotates one OFDM-symbol-worth of time-domain samples by
// cfoRadPerSample, starting at an absolute sample offset startSample so
// that compensation is consistent across symbols processed independently.
func CompensateCFO(samples []complex64, cfoRadPerSample float64, startSample int64) []complex64 {
	out := make([]complex64, len(samples))
	for i, s := range samples {
		phase := -cfoRadPerSample * float64(startSample+int64(i))
		rot := complex(float32(math.Cos(phase)), float32(math.Sin(phase)))
		out[i] = s * rot
	}
	return out
}
