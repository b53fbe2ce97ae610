package util

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntReferenceSizes(t *testing.T) {
	tests := []struct {
		value int
		size  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{math.MaxInt32, 5},
		{-1, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("VarInt_%d", tt.value), func(t *testing.T) {
			require.Equal(t, tt.size, VarIntSize(tt.value))

			b := NewBuf(0)
			b.WriteVarInt(tt.value)
			require.Equal(t, tt.size, b.WriterIndex())

			v, n := b.ReadVarInt()
			require.Equal(t, tt.value, v)
			require.Equal(t, tt.size, n)
			require.Zero(t, b.Readable())
		})
	}
}

// TestVarIntRoundtrip walks the value space with a stride that
// crosses every group boundary.
func TestVarIntRoundtrip(t *testing.T) {
	b := NewBuf(0)
	for v := uint64(0); v <= math.MaxUint32; v += 31 * 1021 {
		b.Reset()
		b.WriteVarInt(int(int32(uint32(v))))
		got, n := b.ReadVarInt()
		if uint32(got) != uint32(v) || n != VarIntSize(int(int32(uint32(v)))) {
			t.Fatalf("VarInt mismatch: wrote %d, read %d (%d bytes)", v, uint32(got), n)
		}
	}
}

func TestVarIntIncomplete(t *testing.T) {
	v, n, err := VarInt([]byte{0x80, 0x80})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, v)

	_, _, err = VarInt([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	require.ErrorIs(t, err, ErrVarIntTooBig)
}

func TestPutVarIntMatchesWriteVarInt(t *testing.T) {
	for _, v := range []int{0, 1, 300, 25565, 2097151, -256} {
		p := make([]byte, MaxVarIntLen)
		n := PutVarInt(p, v)

		b := NewBuf(0)
		b.WriteVarInt(v)
		require.Equal(t, p[:n], b.Bytes())
	}
}
