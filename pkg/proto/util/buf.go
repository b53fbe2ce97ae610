package util

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
)

// ErrBufUnderflow is the panic value of a read past the writer index.
// Readers recover it at the packet boundary with Recover.
var ErrBufUnderflow = errors.New("read past end of buffer")

const defaultBufSize = 64

// Buf is a growable byte buffer with separate reader and writer indices.
//
// The invariant 0 <= ReaderIndex() <= WriterIndex() <= Cap() always holds.
// Writes grow the backing array through EnsureWritable, reads never advance
// past the writer index and panic with ErrBufUnderflow if they would.
//
// A Buf is owned by one session or handler at a time and is not safe
// for concurrent use.
type Buf struct {
	b []byte // len(b) is the capacity
	r int    // next byte to read
	w int    // next byte to write
}

// NewBuf returns an empty Buf with the given initial capacity.
func NewBuf(capacity int) *Buf {
	if capacity <= 0 {
		capacity = defaultBufSize
	}
	return &Buf{b: make([]byte, capacity)}
}

// BufOf returns a Buf reading from p. The Buf takes ownership of p.
func BufOf(p []byte) *Buf {
	return &Buf{b: p, w: len(p)}
}

// ReaderIndex returns the index of the next byte to read.
func (b *Buf) ReaderIndex() int { return b.r }

// WriterIndex returns the index of the next byte to write.
func (b *Buf) WriterIndex() int { return b.w }

// Cap returns the current capacity.
func (b *Buf) Cap() int { return len(b.b) }

// Readable returns the number of unread bytes.
func (b *Buf) Readable() int { return b.w - b.r }

// Writable returns the number of bytes that can be written without growing.
func (b *Buf) Writable() int { return len(b.b) - b.w }

// Bytes returns the unread bytes. The slice aliases the buffer
// and is only valid until the next modification.
func (b *Buf) Bytes() []byte { return b.b[b.r:b.w] }

// Free returns the writable region. Callers that fill it
// must commit the written bytes with Advance.
func (b *Buf) Free() []byte { return b.b[b.w:] }

// Advance commits n bytes written into the region returned by Free.
func (b *Buf) Advance(n int) {
	if n < 0 || b.w+n > len(b.b) {
		panic(fmt.Errorf("advance by %d exceeds writable %d", n, b.Writable()))
	}
	b.w += n
}

// SetReaderIndex moves the reader index.
// It panics with ErrBufUnderflow if i is beyond the writer index.
func (b *Buf) SetReaderIndex(i int) {
	if i < 0 || i > b.w {
		panic(fmt.Errorf("%w: reader index %d, writer index %d", ErrBufUnderflow, i, b.w))
	}
	b.r = i
}

// Skip advances the reader index by n bytes.
func (b *Buf) Skip(n int) {
	b.SetReaderIndex(b.r + n)
}

// Reset empties the buffer but keeps its capacity.
func (b *Buf) Reset() {
	b.r, b.w = 0, 0
}

// Compact moves the unread bytes to the start of the buffer.
func (b *Buf) Compact() {
	if b.r == 0 {
		return
	}
	n := copy(b.b, b.b[b.r:b.w])
	b.r, b.w = 0, n
}

// EnsureWritable guarantees at least n more bytes of free capacity.
// The buffer grows to at least double its capacity.
func (b *Buf) EnsureWritable(n int) {
	if n <= b.Writable() {
		return
	}
	newCap := len(b.b) * 2
	if need := b.w + n; newCap < need {
		newCap = need
	}
	if newCap < defaultBufSize {
		newCap = defaultBufSize
	}
	nb := make([]byte, newCap)
	copy(nb, b.b[:b.w])
	b.b = nb
}

// Append copies n unread bytes of other into b and advances
// both other's reader index and b's writer index.
func (b *Buf) Append(other *Buf, n int) {
	if n > other.Readable() {
		panic(fmt.Errorf("%w: append %d bytes, %d readable", ErrBufUnderflow, n, other.Readable()))
	}
	b.EnsureWritable(n)
	copy(b.b[b.w:], other.b[other.r:other.r+n])
	b.w += n
	other.r += n
}

// Write implements io.Writer. It never returns an error.
func (b *Buf) Write(p []byte) (int, error) {
	b.EnsureWritable(len(p))
	n := copy(b.b[b.w:], p)
	b.w += n
	return n, nil
}

// WriteByte implements io.ByteWriter.
func (b *Buf) WriteByte(c byte) error {
	b.WriteU8(c)
	return nil
}

// Read implements io.Reader over the unread bytes.
func (b *Buf) Read(p []byte) (int, error) {
	if b.r == b.w {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.b[b.r:b.w])
	b.r += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (b *Buf) ReadByte() (byte, error) {
	if b.r == b.w {
		return 0, io.EOF
	}
	c := b.b[b.r]
	b.r++
	return c, nil
}

// UnreadByte implements io.ByteScanner.
func (b *Buf) UnreadByte() error {
	if b.r == 0 {
		return errors.New("unread byte at start of buffer")
	}
	b.r--
	return nil
}

// WriteTo implements io.WriterTo and drains the unread bytes into w.
func (b *Buf) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.b[b.r:b.w])
	b.r += n
	return int64(n), err
}

// next returns the next n unread bytes and advances the reader index.
func (b *Buf) next(n int) []byte {
	if n < 0 || n > b.Readable() {
		panic(fmt.Errorf("%w: need %d bytes, %d readable", ErrBufUnderflow, n, b.Readable()))
	}
	p := b.b[b.r : b.r+n]
	b.r += n
	return p
}

// grow reserves n bytes at the writer index and returns them.
func (b *Buf) grow(n int) []byte {
	b.EnsureWritable(n)
	p := b.b[b.w : b.w+n]
	b.w += n
	return p
}

func (b *Buf) WriteU8(v uint8) { b.grow(1)[0] = v }

func (b *Buf) WriteBool(v bool) {
	if v {
		b.WriteU8(1)
	} else {
		b.WriteU8(0)
	}
}

func (b *Buf) WriteU16(v uint16) { binary.BigEndian.PutUint16(b.grow(2), v) }
func (b *Buf) WriteI16(v int16)  { b.WriteU16(uint16(v)) }
func (b *Buf) WriteU32(v uint32) { binary.BigEndian.PutUint32(b.grow(4), v) }
func (b *Buf) WriteI32(v int32)  { b.WriteU32(uint32(v)) }
func (b *Buf) WriteU64(v uint64) { binary.BigEndian.PutUint64(b.grow(8), v) }
func (b *Buf) WriteI64(v int64)  { b.WriteU64(uint64(v)) }

// WriteU128 writes a 128-bit integer as its most significant 64 bits
// followed by the least significant 64 bits.
func (b *Buf) WriteU128(hi, lo uint64) {
	b.WriteU64(hi)
	b.WriteU64(lo)
}

func (b *Buf) WriteF32(v float32) { b.WriteU32(math.Float32bits(v)) }
func (b *Buf) WriteF64(v float64) { b.WriteU64(math.Float64bits(v)) }

// WriteVarInt appends v as VarInt.
func (b *Buf) WriteVarInt(v int) {
	b.EnsureWritable(MaxVarIntLen)
	b.w += PutVarInt(b.b[b.w:], v)
}

// WriteSizedString appends a VarInt byte length followed by the UTF-8 bytes of s.
func (b *Buf) WriteSizedString(s string) {
	b.WriteVarInt(len(s))
	copy(b.grow(len(s)), s)
}

// WriteBytes appends a VarInt length prefixed byte array.
func (b *Buf) WriteBytes(p []byte) {
	b.WriteVarInt(len(p))
	copy(b.grow(len(p)), p)
}

// WriteUUID appends id as unsigned 128-bit integer.
func (b *Buf) WriteUUID(id uuid.UUID) {
	copy(b.grow(16), id[:])
}

func (b *Buf) ReadU8() uint8  { return b.next(1)[0] }
func (b *Buf) ReadBool() bool { return b.ReadU8() != 0 }

func (b *Buf) ReadU16() uint16 { return binary.BigEndian.Uint16(b.next(2)) }
func (b *Buf) ReadI16() int16  { return int16(b.ReadU16()) }
func (b *Buf) ReadU32() uint32 { return binary.BigEndian.Uint32(b.next(4)) }
func (b *Buf) ReadI32() int32  { return int32(b.ReadU32()) }
func (b *Buf) ReadU64() uint64 { return binary.BigEndian.Uint64(b.next(8)) }
func (b *Buf) ReadI64() int64  { return int64(b.ReadU64()) }

// ReadU128 reads a 128-bit integer written by WriteU128.
func (b *Buf) ReadU128() (hi, lo uint64) {
	return b.ReadU64(), b.ReadU64()
}

func (b *Buf) ReadF32() float32 { return math.Float32frombits(b.ReadU32()) }
func (b *Buf) ReadF64() float64 { return math.Float64frombits(b.ReadU64()) }

// ReadVarInt reads a VarInt and returns its value and encoded size.
func (b *Buf) ReadVarInt() (v int, n int) {
	v, n, err := VarInt(b.b[b.r:b.w])
	if err != nil {
		panic(err)
	}
	if n == 0 {
		panic(fmt.Errorf("%w: incomplete VarInt", ErrBufUnderflow))
	}
	b.r += n
	return v, n
}

// VarIntVal reads a VarInt and returns only its value.
func (b *Buf) VarIntVal() int {
	v, _ := b.ReadVarInt()
	return v
}

// ReadSizedString reads a VarInt length prefixed UTF-8 string.
func (b *Buf) ReadSizedString() string {
	n := b.VarIntVal()
	if n < 0 {
		panic(fmt.Errorf("negative string length %d", n))
	}
	return string(b.next(n))
}

// ReadBytes reads a VarInt length prefixed byte array.
// The returned slice is a copy.
func (b *Buf) ReadBytes() []byte {
	n := b.VarIntVal()
	if n < 0 {
		panic(fmt.Errorf("negative byte array length %d", n))
	}
	return append([]byte(nil), b.next(n)...)
}

// ReadRaw reads n raw bytes. The returned slice aliases the buffer.
func (b *Buf) ReadRaw(n int) []byte { return b.next(n) }

// ReadUUID reads an unsigned 128-bit integer as UUID.
func (b *Buf) ReadUUID() (id uuid.UUID) {
	copy(id[:], b.next(16))
	return id
}
