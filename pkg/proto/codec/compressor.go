package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"go.minekube.com/stampede/pkg/proto/util"
)

const (
	// UncompressedCap is the largest uncompressed size a compressed
	// frame may declare.
	UncompressedCap = 8 * 1024 * 1024 // 8MiB

	// DefaultLevel is the zlib default compression level.
	DefaultLevel = zlib.DefaultCompression
)

var (
	ErrShortBuffer       = errors.New("compressed output exceeds bound")
	ErrBadlyCompressed   = errors.New("badly compressed packet")
	ErrUncompressedLimit = fmt.Errorf("uncompressed size exceeds %d bytes", UncompressedCap)
)

// CompressBound returns the maximum zlib stream size for n input bytes.
func CompressBound(n int) int {
	return n + n>>12 + n>>14 + n>>25 + 13 + 6
}

// Compressor implements the per-session compression layer that sits
// between packet payloads and frames once the server enabled compression.
//
// Packets larger than the threshold are written as
// VarInt(uncompressed size) followed by the zlib stream,
// all others as VarInt(0) followed by the raw payload.
//
// A Compressor is not safe for concurrent use.
type Compressor struct {
	threshold int

	zw      *zlib.Writer
	zr      io.ReadCloser
	src     bytes.Reader
	scratch []byte
}

// NewCompressor returns a Compressor for the given threshold and zlib level.
func NewCompressor(threshold, level int) (*Compressor, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("invalid compression threshold %d", threshold)
	}
	zw, err := zlib.NewWriterLevel(io.Discard, level)
	if err != nil {
		return nil, fmt.Errorf("error creating zlib writer: %w", err)
	}
	return &Compressor{
		threshold: threshold,
		zw:        zw,
	}, nil
}

// Threshold returns the size above which payloads are compressed.
func (c *Compressor) Threshold() int { return c.threshold }

// SetThreshold changes the threshold. Servers may resend SetCompression.
func (c *Compressor) SetThreshold(threshold int) { c.threshold = threshold }

// Compress appends payload to out in compressed packet format.
func (c *Compressor) Compress(out *util.Buf, payload []byte) error {
	size := len(payload)
	if size <= c.threshold {
		out.EnsureWritable(1 + size)
		out.WriteVarInt(0)
		_, _ = out.Write(payload)
		return nil
	}

	bound := CompressBound(size)
	out.EnsureWritable(util.MaxVarIntLen + bound)
	out.WriteVarInt(size)

	sink := &boundedWriter{p: out.Free()[:bound]}
	c.zw.Reset(sink)
	if _, err := c.zw.Write(payload); err != nil {
		return err
	}
	if err := c.zw.Close(); err != nil {
		return err
	}
	if sink.err != nil {
		return sink.err
	}
	out.Advance(sink.n)
	return nil
}

// Decompress returns the packet payload of a compressed packet frame.
// The returned slice is only valid until the next call.
func (c *Compressor) Decompress(frame []byte) ([]byte, error) {
	dataLen, n, err := util.VarInt(frame)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: missing data length", ErrBadlyCompressed)
	}
	rest := frame[n:]
	if dataLen == 0 {
		return rest, nil
	}
	if dataLen < 0 || dataLen > UncompressedCap {
		return nil, fmt.Errorf("%w: declared %d", ErrUncompressedLimit, dataLen)
	}

	c.src.Reset(rest)
	if c.zr == nil {
		c.zr, err = zlib.NewReader(&c.src)
	} else {
		err = c.zr.(zlib.Resetter).Reset(&c.src, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadlyCompressed, err)
	}

	if cap(c.scratch) < dataLen {
		c.scratch = make([]byte, dataLen)
	}
	dst := c.scratch[:dataLen]
	if _, err = io.ReadFull(c.zr, dst); err != nil {
		return nil, fmt.Errorf("%w: inflated less than declared %d bytes: %v", ErrBadlyCompressed, dataLen, err)
	}
	// the stream must end exactly at the declared size
	var one [1]byte
	if m, err := c.zr.Read(one[:]); m != 0 || !errors.Is(err, io.EOF) {
		if err == nil || errors.Is(err, io.EOF) {
			err = errors.New("trailing data")
		}
		return nil, fmt.Errorf("%w: inflated more than declared %d bytes: %v", ErrBadlyCompressed, dataLen, err)
	}
	return dst, nil
}

// boundedWriter writes into a fixed slice and fails instead of growing.
type boundedWriter struct {
	p   []byte
	n   int
	err error
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if len(p) > len(w.p)-w.n {
		w.err = ErrShortBuffer
		return 0, w.err
	}
	w.n += copy(w.p[w.n:], p)
	return len(p), nil
}
