package codec

import (
	"errors"
	"fmt"

	"go.minekube.com/stampede/pkg/proto/util"
)

// MaxFrameHeaderLen is the maximum size of the VarInt length prefix of a frame.
// Larger frames are not valid on the wire.
const MaxFrameHeaderLen = 3

// MaxFrameLen is the largest payload a frame can carry.
const MaxFrameLen = 1<<(7*MaxFrameHeaderLen) - 1

var ErrFrameTooLarge = errors.New("frame too large")

// WriteFrame appends payload to out prefixed with its VarInt length.
func WriteFrame(out *util.Buf, payload []byte) error {
	if len(payload) > MaxFrameLen {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrFrameTooLarge, len(payload), MaxFrameLen)
	}
	out.EnsureWritable(util.VarIntSize(len(payload)) + len(payload))
	out.WriteVarInt(len(payload))
	_, _ = out.Write(payload)
	return nil
}

// Frame returns a new buffer holding the unread bytes of payload as one frame.
// The reader index of payload is not moved.
func Frame(payload *util.Buf) (*util.Buf, error) {
	out := util.NewBuf(payload.Readable() + MaxFrameHeaderLen)
	if err := WriteFrame(out, payload.Bytes()); err != nil {
		return nil, err
	}
	return out, nil
}

// FrameReader splits a stream of bytes received in arbitrary chunks into frames.
//
// Bytes of a frame that has not been received completely stay in the
// reader and are completed by later calls to Feed.
type FrameReader struct {
	buf *util.Buf
}

// NewFrameReader returns a FrameReader with the given initial buffer capacity.
func NewFrameReader(capacity int) *FrameReader {
	return &FrameReader{buf: util.NewBuf(capacity)}
}

// Feed appends received bytes. Frames previously returned by Next
// must not be used after calling Feed.
func (r *FrameReader) Feed(p []byte) {
	r.buf.Compact()
	_, _ = r.buf.Write(p)
}

// Buffered returns the number of bytes not yet returned as frames.
func (r *FrameReader) Buffered() int { return r.buf.Readable() }

// Next returns the payload of the next complete frame.
// If no complete frame is buffered it returns ok == false and
// keeps the incomplete tail, length prefix included, for the next Feed.
// Zero-length frames are skipped. The returned slice aliases the
// reader's buffer.
func (r *FrameReader) Next() (payload []byte, ok bool, err error) {
	for {
		length, n, err := util.VarInt(r.buf.Bytes())
		if err != nil {
			return nil, false, fmt.Errorf("%w: bad length prefix: %v", ErrFrameTooLarge, err)
		}
		if n == 0 {
			if r.buf.Readable() >= MaxFrameHeaderLen {
				return nil, false, fmt.Errorf("%w: length prefix longer than %d bytes", ErrFrameTooLarge, MaxFrameHeaderLen)
			}
			return nil, false, nil // need more
		}
		if n > MaxFrameHeaderLen || length < 0 {
			return nil, false, fmt.Errorf("%w: declared length %d", ErrFrameTooLarge, length)
		}
		if r.buf.Readable()-n < length {
			return nil, false, nil // need more
		}
		r.buf.Skip(n)
		if length == 0 {
			continue
		}
		return r.buf.ReadRaw(length), true, nil
	}
}
