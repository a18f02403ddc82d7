package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGetNumerologiesMonotonic(t *testing.T) {
	for _, mu := range []uint32{1, 2, 4, 8} {
		n := GetNumerologies(mu, 1)
		assert.Equal(t, mu*SubcarrierSpacingMinUB, n.DeltaUF)
		assert.Equal(t, mu*10, n.NSlotUSymb)
	}
}

func TestIsValidMuBeta(t *testing.T) {
	for _, mu := range []uint32{1, 2, 4, 8} {
		assert.True(t, IsValidMu(mu))
	}
	for _, mu := range []uint32{0, 3, 5, 16} {
		assert.False(t, IsValidMu(mu))
	}
	for _, b := range []uint32{1, 2, 4, 8, 12, 16} {
		assert.True(t, IsValidBeta(b))
	}
	assert.False(t, IsValidBeta(3))
}

func TestPCCPDCCellMapsPartitionDataField(t *testing.T) {
	drs := NewDRSPlacement(20, 2, 56*4)
	pcc := PCCCellMap(drs)
	pdc := PDCCellMap(drs)
	require.Len(t, pcc, PCCCells)

	seen := make(map[Cell]bool, len(pcc)+len(pdc))
	for _, c := range pcc {
		assert.False(t, seen[c], "pcc cell reused")
		seen[c] = true
	}
	for _, c := range pdc {
		assert.False(t, seen[c], "pdc cell overlaps pcc")
		seen[c] = true
	}
}

func TestGetPacketSizesRejectsNEffTX4BelowFifteenSymbols(t *testing.T) {
	qq := PacketSizeDef{
		Mu: 1, Beta: 1, PacketLengthType: 1, PacketLength: 1,
		TMModeIndex: 5, MCSIndex: 0, Z: 2048,
	}
	_, ok := GetPacketSizes(qq)
	assert.False(t, ok, "N_eff_TX=4 below 15 symbols must be rejected")
}

func TestGetPacketSizesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mu := rapid.SampledFrom([]uint32{1, 2, 4, 8}).Draw(t, "mu")
		beta := rapid.SampledFrom([]uint32{1, 2, 4, 8, 12, 16}).Draw(t, "beta")
		packetLength := rapid.Uint32Range(1, 16).Draw(t, "packetLength")
		tmIdx := rapid.Uint32Range(0, 11).Draw(t, "tmIdx")
		mcsIdx := rapid.Uint32Range(0, 9).Draw(t, "mcsIdx")
		z := rapid.SampledFrom([]uint32{2048, 6144}).Draw(t, "z")

		qq := PacketSizeDef{
			Mu: mu, Beta: beta, PacketLengthType: 1, PacketLength: packetLength,
			TMModeIndex: tmIdx, MCSIndex: mcsIdx, Z: z,
		}
		dps, ok := GetPacketSizes(qq)
		if !ok {
			return
		}
		assert.Greater(t, dps.NSamplesPacket, uint32(0))
		assert.Equal(t, dps.NDFSymb, dps.NPacketSymb-dps.NPacketSymb+dps.NDFSymb)

		drs := NewDRSPlacement(dps.NDFSymb, dps.TMMode.NEffTX, dps.Numerology.NbOCC)
		pcc := PCCCellMap(drs)
		require.Len(t, pcc, PCCCells)
		pdc := PDCCellMap(drs)
		assert.Equal(t, int(dps.NPDCSubc), len(pdc))
	})
}
