package codec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/stampede/pkg/proto/util"
)

func TestCompressorThresholdIsExclusive(t *testing.T) {
	const threshold = 256
	c, err := NewCompressor(threshold, DefaultLevel)
	require.NoError(t, err)

	tests := []struct {
		name       string
		size       int
		compressed bool
	}{
		{"below", threshold - 1, false},
		{"at", threshold, false},
		{"above", threshold + 1, true},
		{"large", 1 << 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte("stampede"), tt.size/8+1)[:tt.size]

			out := util.NewBuf(0)
			require.NoError(t, c.Compress(out, payload))

			dataLen, _, err := util.VarInt(out.Bytes())
			require.NoError(t, err)
			if tt.compressed {
				assert.Equal(t, tt.size, dataLen)
				assert.Less(t, out.Readable(), tt.size)
			} else {
				assert.Zero(t, dataLen)
				assert.Equal(t, 1+tt.size, out.Readable())
			}

			got, err := c.Decompress(out.Bytes())
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestCompressorIncompressible(t *testing.T) {
	c, err := NewCompressor(0, DefaultLevel)
	require.NoError(t, err)

	payload := make([]byte, 2_000_000)
	rand.New(rand.NewSource(1)).Read(payload)

	out := util.NewBuf(0)
	require.NoError(t, c.Compress(out, payload))
	got, err := c.Decompress(out.Bytes())
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestCompressorWithFraming(t *testing.T) {
	c, err := NewCompressor(64, DefaultLevel)
	require.NoError(t, err)

	stream := util.NewBuf(0)
	payloads := [][]byte{[]byte{0x00, 0x01}, bytes.Repeat([]byte{0x07}, 4096)}
	for _, p := range payloads {
		body := util.NewBuf(0)
		require.NoError(t, c.Compress(body, p))
		require.NoError(t, WriteFrame(stream, body.Bytes()))
	}

	r := NewFrameReader(0)
	r.Feed(stream.Bytes())
	for _, want := range payloads {
		frame, ok, err := r.Next()
		require.NoError(t, err)
		require.True(t, ok)
		got, err := c.Decompress(frame)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecompressRejectsBadInput(t *testing.T) {
	c, err := NewCompressor(0, DefaultLevel)
	require.NoError(t, err)

	out := util.NewBuf(0)
	require.NoError(t, c.Compress(out, bytes.Repeat([]byte{1}, 100)))
	good := append([]byte(nil), out.Bytes()...)

	t.Run("size mismatch", func(t *testing.T) {
		bad := util.NewBuf(0)
		bad.WriteVarInt(101)
		_, _ = bad.Write(good[1:])
		_, err := c.Decompress(bad.Bytes())
		require.ErrorIs(t, err, ErrBadlyCompressed)

		bad.Reset()
		bad.WriteVarInt(99)
		_, _ = bad.Write(good[1:])
		_, err = c.Decompress(bad.Bytes())
		require.ErrorIs(t, err, ErrBadlyCompressed)
	})
	t.Run("over cap", func(t *testing.T) {
		bad := util.NewBuf(0)
		bad.WriteVarInt(UncompressedCap + 1)
		_, _ = bad.Write(good[1:])
		_, err := c.Decompress(bad.Bytes())
		require.ErrorIs(t, err, ErrUncompressedLimit)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := c.Decompress([]byte{10, 0xFF, 0xFF, 0xFF})
		require.Error(t, err)
	})
	t.Run("still usable", func(t *testing.T) {
		got, err := c.Decompress(good)
		require.NoError(t, err)
		require.Len(t, got, 100)
	})
}

func TestCompressBoundOverflow(t *testing.T) {
	sink := &boundedWriter{p: make([]byte, 4)}
	n, err := sink.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	_, err = sink.Write([]byte{4, 5})
	require.ErrorIs(t, err, ErrShortBuffer)
}
