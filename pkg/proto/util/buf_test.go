package util

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufPrimitives(t *testing.T) {
	id := uuid.New()
	b := NewBuf(1) // force several grows

	b.WriteU8(0xAB)
	b.WriteBool(true)
	b.WriteU16(25565)
	b.WriteI16(-2)
	b.WriteU32(0xDEADBEEF)
	b.WriteI32(-42)
	b.WriteU64(1 << 60)
	b.WriteI64(-7)
	b.WriteU128(1, 2)
	b.WriteF32(1.5)
	b.WriteF64(-20.25)
	b.WriteSizedString("en_US")
	b.WriteSizedString("")
	b.WriteBytes([]byte{1, 2, 3})
	b.WriteUUID(id)

	assert.Equal(t, uint8(0xAB), b.ReadU8())
	assert.True(t, b.ReadBool())
	assert.Equal(t, uint16(25565), b.ReadU16())
	assert.Equal(t, int16(-2), b.ReadI16())
	assert.Equal(t, uint32(0xDEADBEEF), b.ReadU32())
	assert.Equal(t, int32(-42), b.ReadI32())
	assert.Equal(t, uint64(1<<60), b.ReadU64())
	assert.Equal(t, int64(-7), b.ReadI64())
	hi, lo := b.ReadU128()
	assert.Equal(t, uint64(1), hi)
	assert.Equal(t, uint64(2), lo)
	assert.Equal(t, float32(1.5), b.ReadF32())
	assert.Equal(t, -20.25, b.ReadF64())
	assert.Equal(t, "en_US", b.ReadSizedString())
	assert.Equal(t, "", b.ReadSizedString())
	assert.Equal(t, []byte{1, 2, 3}, b.ReadBytes())
	assert.Equal(t, id, b.ReadUUID())
	assert.Zero(t, b.Readable())
}

func TestBufBigEndian(t *testing.T) {
	b := NewBuf(0)
	b.WriteU16(0x0102)
	b.WriteU32(0x03040506)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, b.Bytes())
}

func TestBufUnderflowPanics(t *testing.T) {
	b := NewBuf(0)
	b.WriteU16(1)

	err := RecoverFunc(func() error {
		b.ReadU32()
		return nil
	})
	require.ErrorIs(t, err, ErrBufUnderflow)
	// failed read did not move the reader index
	require.Equal(t, 0, b.ReaderIndex())

	require.Panics(t, func() { b.SetReaderIndex(3) })
}

func TestBufEnsureWritable(t *testing.T) {
	b := NewBuf(8)
	b.WriteU64(1)
	require.Equal(t, 8, b.Cap())
	require.Zero(t, b.Writable())

	b.EnsureWritable(1)
	require.GreaterOrEqual(t, b.Cap(), 16, "grows by doubling")

	b.EnsureWritable(100)
	require.GreaterOrEqual(t, b.Writable(), 100)
	require.Equal(t, uint64(1), b.ReadU64(), "grow keeps written bytes")
}

func TestBufAppend(t *testing.T) {
	src := NewBuf(0)
	src.Write([]byte("hello world"))
	src.Skip(6)

	dst := NewBuf(2)
	dst.WriteU8('>')
	dst.Append(src, 3)

	require.Equal(t, []byte(">wor"), dst.Bytes())
	require.Equal(t, 2, src.Readable())
	require.Panics(t, func() { dst.Append(src, 5) })
}

func TestBufFreeAdvance(t *testing.T) {
	b := NewBuf(4)
	n := copy(b.Free(), "abc")
	b.Advance(n)
	require.Equal(t, "abc", string(b.Bytes()))
	require.Panics(t, func() { b.Advance(2) })
}

func TestBufCompact(t *testing.T) {
	b := NewBuf(0)
	b.Write([]byte{1, 2, 3, 4})
	b.Skip(3)
	b.Compact()
	require.Equal(t, 0, b.ReaderIndex())
	require.Equal(t, []byte{4}, b.Bytes())
}

func TestBufIO(t *testing.T) {
	b := NewBuf(0)
	_, err := io.Copy(b, bytes.NewReader([]byte("stampede")))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = b.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, "stampede", out.String())

	_, err = b.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.EOF)
}
