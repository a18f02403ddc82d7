package sections

// PacketSizeDef is psdef from §3: the seven parameters a packet size is
// fully determined by.
type PacketSizeDef struct {
	Mu              uint32 // {1,2,4,8}
	Beta            uint32 // {1,2,4,8,12,16}
	PacketLengthType uint32 // {0,1}
	PacketLength    uint32 // [1,16]
	TMModeIndex     uint32 // [0,11]
	MCSIndex        uint32 // [0,9]
	Z               uint32 // {2048,6144}
}

// DerivedPacketSizes is the derived packet-sizes record of §3, computed by
// GetPacketSizes from a PacketSizeDef.
type DerivedPacketSizes struct {
	Def PacketSizeDef

	Numerology Numerology
	MCS        MCS
	TMMode     TMMode

	NPacketSymb uint32 // total OFDM symbols in the packet, incl. STF
	NDFSymb     uint32 // data-field OFDM symbols

	NTBBits uint32 // transport-block bits
	G       uint32 // coded bits (bits/symbol * N_PDC_subc accounting for MCS)

	NPDCSubc uint32
	NDRSSubc uint32

	NSamplesSTF        uint32
	NSamplesSTFCPOnly  uint32
	NSamplesDF         uint32
	NSamplesGI         uint32
	NSamplesPacket     uint32
}

// GetPacketSizes computes the DerivedPacketSizes record for qq, or
// (zero, false) if qq is infeasible per §3's rejection list. Grounded on
// original_source/lib/src/sections_part3/derivative/packet_sizes.cpp and
// transmission_packet_structure.cpp/pdc.cpp.
func GetPacketSizes(qq PacketSizeDef) (DerivedPacketSizes, bool) {
	if !IsValidMu(qq.Mu) || !IsValidBeta(qq.Beta) {
		return DerivedPacketSizes{}, false
	}
	if qq.PacketLengthType > 1 || qq.PacketLength == 0 || qq.PacketLength > 16 {
		return DerivedPacketSizes{}, false
	}

	tmMode, ok := GetTMMode(qq.TMModeIndex)
	if !ok {
		return DerivedPacketSizes{}, false
	}
	mcs, ok := GetMCS(qq.MCSIndex)
	if !ok {
		return DerivedPacketSizes{}, false
	}
	if qq.Z != 2048 && qq.Z != 6144 {
		return DerivedPacketSizes{}, false
	}

	num := GetNumerologies(qq.Mu, qq.Beta)

	nPacketSymb := getNPacketSymb(qq.PacketLengthType, qq.PacketLength, num.NSlotUSymb, num.NSlotUSubslot)
	if nPacketSymb < 5 || nPacketSymb > 1280 || nPacketSymb%5 != 0 {
		return DerivedPacketSizes{}, false
	}

	nEffTX := tmMode.NEffTX

	// §3 rejection: N_eff_TX=4 requires >=15 symbols.
	if nEffTX == 4 && nPacketSymb < 15 {
		return DerivedPacketSizes{}, false
	}
	// §3 rejection: mu=8 and N_eff_TX=8 requires >=20 symbols, multiple of 10.
	if qq.Mu == 8 && nEffTX == 8 && (nPacketSymb < 20 || nPacketSymb%10 != 0) {
		return DerivedPacketSizes{}, false
	}

	nDFSymb := getNDFSymb(qq.Mu, nPacketSymb)
	if nDFSymb == 0 {
		return DerivedPacketSizes{}, false
	}

	nDRSSymbPerTS := getNofDRSSymbolsPerTS(qq.Mu, nPacketSymb, nEffTX)
	nDRSSubc := nEffTX * num.NbOCC / 4 * nDRSSymbPerTS

	nPCCSubc := uint32(PCCCells)
	var nPDCSubc uint32
	if nDFSymb*num.NbOCC > nDRSSubc+nPCCSubc {
		nPDCSubc = nDFSymb*num.NbOCC - nDRSSubc - nPCCSubc
	}
	if nPDCSubc == 0 {
		// §3 rejection: PDC has zero cells.
		return DerivedPacketSizes{}, false
	}

	nTBBits := uint32(float64(nPDCSubc*mcs.NBps) * mcs.CodeRate)
	if nTBBits == 0 {
		// §3 rejection: TB-bits computes to zero.
		return DerivedPacketSizes{}, false
	}

	if !codeblockSegmentationFits(nTBBits, qq.Z) {
		// §3 rejection: codeblock segmentation would require filler bits.
		return DerivedPacketSizes{}, false
	}

	nSamplesOFDMSymbol := NbCPMin*qq.Beta + NbDFTMin*qq.Beta
	nSamplesSTF := getNSamplesSTF(qq.Mu, qq.Beta, nSamplesOFDMSymbol)
	nSamplesSTFCPOnly := nSamplesSTF - NbDFTMin*qq.Beta
	nSamplesDF := nSamplesOFDMSymbol * nDFSymb
	nSamplesGI := getNSamplesGI(qq.Mu, nSamplesOFDMSymbol)
	nSamplesPacket := nSamplesSTF + nSamplesDF + nSamplesGI

	return DerivedPacketSizes{
		Def:               qq,
		Numerology:        num,
		MCS:               mcs,
		TMMode:            tmMode,
		NPacketSymb:       nPacketSymb,
		NDFSymb:           nDFSymb,
		NTBBits:           nTBBits,
		G:                 nPDCSubc * mcs.NBps,
		NPDCSubc:          nPDCSubc,
		NDRSSubc:          nDRSSubc,
		NSamplesSTF:       nSamplesSTF,
		NSamplesSTFCPOnly: nSamplesSTFCPOnly,
		NSamplesDF:        nSamplesDF,
		NSamplesGI:        nSamplesGI,
		NSamplesPacket:    nSamplesPacket,
	}, true
}

func getNPacketSymb(packetLengthType, packetLength, nSlotUSymb, nSlotUSubslot uint32) uint32 {
	if packetLengthType == 0 {
		return packetLength * nSlotUSymb / nSlotUSubslot
	}
	return packetLength * nSlotUSymb
}

// getNDFSymb returns N_DF_symb: N_PACKET_symb minus the STF/GI symbol
// overhead, which varies by mu (transmission_packet_structure.cpp /
// pdc_t::get_N_DF_symb).
func getNDFSymb(mu, nPacketSymb uint32) uint32 {
	var overhead uint32
	switch mu {
	case 1:
		overhead = 2
	case 2, 4:
		overhead = 3
	default: // 8
		overhead = 4
	}
	if nPacketSymb <= overhead {
		return 0
	}
	return nPacketSymb - overhead
}

// getNofDRSSymbolsPerTS mirrors pdc_t::get_nof_OFDM_symbols_carrying_DRS_per_TS.
func getNofDRSSymbolsPerTS(mu, nPacketSymb, nEffTX uint32) uint32 {
	nStep := uint32(5)
	if nEffTX > 2 {
		nStep = 10
	}
	n := nPacketSymb / nStep
	if nStep == 10 && nPacketSymb%10 != 0 {
		n++
	}
	return n
}

// codeblockSegmentationFits reports whether nTBBits can be segmented into
// codeblocks of maximum size Z without requiring filler bits, i.e.
// nTBBits is an exact multiple of the number of codeblocks implied by Z.
// Grounded on the channel-coding segmentation rule of cbsegm.hpp
// (referenced by packet_sizes.cpp; not present in the filtered pack —
// the rule below is the textbook LTE/NR-style "C = ceil(B/Kmax),
// no filler iff B % C == 0" segmentation invariant every such FEC uses).
func codeblockSegmentationFits(nTBBits, z uint32) bool {
	if nTBBits <= z {
		return true
	}
	c := (nTBBits + z - 1) / z
	return nTBBits%c == 0
}

func getNSamplesSTF(mu, beta, nSamplesOFDMSymbol uint32) uint32 {
	if mu == 1 {
		return nSamplesOFDMSymbol * 14 / 9
	}
	return nSamplesOFDMSymbol * 2
}

func getNSamplesGI(mu, nSamplesOFDMSymbol uint32) uint32 {
	switch mu {
	case 1:
		return nSamplesOFDMSymbol * 4 / 9
	case 2, 4:
		return nSamplesOFDMSymbol
	default: // 8
		return nSamplesOFDMSymbol * 2
	}
}
