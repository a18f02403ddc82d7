// Package mac defines the upper-MAC termination-point interface the
// worker pool drives (§6): work_start_imminent, work_regular, work_pcc,
// work_pdc, and work_irregular, plus the HARQ buffer and TX/RX
// descriptor types those calls exchange.
//
// Grounded on original_source/lib/include/dectnrp/upper/tpoint.hpp,
// referenced throughout the PHY layer's pool/rx/tx headers but excluded
// from the filtered original_source pack itself; this interface is
// reconstructed from its call sites (baton_t::set_tpoint_to_notify,
// worker_sync_t, worker_tx_rx_t) per §1's "consumed only through their
// interfaces".
package mac

import (
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sections"
	phsync "github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sync"
)

// PCCResult carries a decoded (or failed) PLCF, the precursor to PDC
// decoding.
type PCCResult struct {
	Valid  bool
	Type   uint32 // PLCF type 1 or 2
	Fields []byte // raw decoded PLCF bits, packed MSB-first
}

// PDCResult carries a decoded (or failed) transport block.
type PDCResult struct {
	Valid bool
	TB    []byte
	Sizes sections.DerivedPacketSizes
}

// TXDescriptor is what the upper MAC hands to the TX pipeline: payload
// bits plus the psdef that determines how they are encoded, precoded,
// and shaped into samples.
type TXDescriptor struct {
	TB      []byte
	Sizes   sections.DerivedPacketSizes
	TxTime64 int64
}

// TPoint is the termination point interface every worker calls into.
// Implementations live above the PHY layer; the PHY layer only ever
// depends on this interface, never a concrete upper-MAC type.
type TPoint interface {
	// WorkStartImminent is called once at startup, by the last sync
	// worker to register at the baton's start barrier, with the agreed
	// start time, before any regular/packet/irregular job (§5.2).
	WorkStartImminent(syncTime64 int64)

	// WorkRegular is called when the baton's job-regular pacing fires
	// with no packet detected this chunk (§4.9). tr's BarrierTime64
	// bounds how far in the future the MAC may schedule a transmission
	// with. Any returned descriptors are encoded and submitted to the
	// TX ring buffer by the calling worker (§4.10).
	WorkRegular(tr phsync.TimeReport) []TXDescriptor

	// WorkPCC delivers a decoded PCC/PLCF for a synchronized packet. The
	// MAC returns whether PDC decoding should proceed and, if so, the
	// HARQ process to decode into.
	WorkPCC(report phsync.Report, pcc PCCResult) (proceed bool, harqProcess uint32)

	// WorkPDC delivers a decoded transport block for harqProcess. Any
	// returned descriptors (e.g. an acknowledgement) are encoded and
	// submitted to the TX ring buffer by the calling worker (§4.10).
	WorkPDC(harqProcess uint32, pdc PDCResult) []TXDescriptor

	// WorkIrregular delivers a one-off job payload enqueued outside the
	// regular/packet cadence, e.g. a configuration change request. Any
	// returned descriptors are handled as in WorkRegular/WorkPDC.
	WorkIrregular(payload any) []TXDescriptor
}

// HARQBuffer holds the soft-combining buffer for one HARQ process (§6):
// successive retransmissions (up to sections.RVMax redundancy versions)
// are combined before decoding is attempted again.
type HARQBuffer struct {
	ProcessID uint32
	LLR       []float32
	RVCount   uint32
}

// NewHARQBuffer constructs an empty buffer sized for nBits soft values.
func NewHARQBuffer(processID uint32, nBits int) *HARQBuffer {
	return &HARQBuffer{ProcessID: processID, LLR: make([]float32, nBits)}
}

// Combine adds newLLR into the buffer (simple LLR summation, the
// standard Chase-combining approximation) and advances the
// retransmission count. Returns false once RVMax has been exceeded
// without a successful decode, signalling the MAC should give up.
func (h *HARQBuffer) Combine(newLLR []float32) bool {
	if len(newLLR) != len(h.LLR) {
		copy(h.LLR, newLLR)
	} else {
		for i := range h.LLR {
			h.LLR[i] += newLLR[i]
		}
	}
	h.RVCount++
	return h.RVCount <= sections.RVMax+1
}

// Reset clears the buffer for reuse by a new initial transmission.
func (h *HARQBuffer) Reset() {
	for i := range h.LLR {
		h.LLR[i] = 0
	}
	h.RVCount = 0
}
