package rxpipe

import "math"

// EstimateSNRFromResidual computes a post-equalization SNR estimate in
// dB from the mean pilot-symbol error energy versus the mean pilot
// signal energy, grounded on estimator_snr_t's "compare equalized pilot
// symbols against their known reference" approach.
func EstimateSNRFromResidual(signalEnergy, errorEnergy float64) float64 {
	if errorEnergy <= 0 {
		return 60 // clamp: effectively noise-free
	}
	if signalEnergy <= 0 {
		return -60
	}
	return 10 * math.Log10(signalEnergy/errorEnergy)
}
