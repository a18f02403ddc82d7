package txpipe

import "github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"

// Precode maps N_SS spatial-stream symbol sequences onto N_TS
// transmit-stream sequences, per §4.13's transmit-diversity/
// spatial-multiplexing modes. Grounded on
// transmit_diversity_precoding.hpp's Alamouti scheme for N_TS=2; N_SS>1
// spatial multiplexing beyond passthrough is the same documented
// simplification as internal/rxpipe's combining stub (see DESIGN.md).
func Precode(streams []sample.Vector, nTS uint32) []sample.Vector {
	switch {
	case len(streams) == 1 && nTS == 1:
		return streams
	case len(streams) == 1 && nTS == 2:
		return alamouti(streams[0])
	default:
		// Every other case (N_SS>1, or N_SS=1 with N_TS>2): input stream
		// i goes unchanged to transmit stream i, no precoding matrix;
		// transmit streams without an input stream carry zeros.
		out := make([]sample.Vector, nTS)
		for i := uint32(0); i < nTS; i++ {
			if int(i) < len(streams) {
				out[i] = streams[i]
			} else {
				out[i] = make(sample.Vector, len(streams[0]))
			}
		}
		return out
	}
}

// alamouti applies the rate-1 Alamouti space-time block code to a single
// data stream, producing two transmit streams from symbol pairs
// (s0, s1) -> stream0 = (s0, -conj(s1)), stream1 = (s1, conj(s0)).
func alamouti(s sample.Vector) []sample.Vector {
	n := len(s)
	a := make(sample.Vector, n)
	b := make(sample.Vector, n)
	for i := 0; i+1 < n; i += 2 {
		s0, s1 := s[i], s[i+1]
		a[i] = s0
		a[i+1] = complex(-real(s1), imag(s1))
		b[i] = s1
		b[i+1] = complex(real(s0), -imag(s0))
	}
	if n%2 == 1 {
		a[n-1] = s[n-1]
	}
	return []sample.Vector{a, b}
}
