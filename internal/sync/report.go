package sync

// TimeReport is handed to a regular work tick, grounded on
// time_report.hpp's guarantee that no packet with an earlier fine-peak
// time can ever arrive after it is issued.
type TimeReport struct {
	ChunkTimeEnd64 int64 // first sample index past the chunk just searched
	SyncTimeLast64 int64 // fine-peak time of the most recent accepted sync report, or -1 if none yet
}

// BarrierTime64 is the later of the chunk's end and the last accepted
// sync time, the point past which upper-MAC may schedule future work
// without risk of a late-arriving packet job.
func (t TimeReport) BarrierTime64() int64 {
	if t.SyncTimeLast64 > t.ChunkTimeEnd64 {
		return t.SyncTimeLast64
	}
	return t.ChunkTimeEnd64
}

// Report is the output of one successful synchronization (§4.4 stage c),
// carrying everything the RX pipeline needs to begin synchronized
// reception. Grounded on sync_report.hpp.
type Report struct {
	SyncTime64  int64   // absolute sample index of the STF's first sample
	CFOEstimate float64 // radians per sample, from the coarse stage
	SNRdB       float64
	NEffTX      uint32
	Beta        uint32
	Mu          uint32
}
