package util

import "errors"

// MaxVarIntLen is the maximum number of bytes a 32-bit VarInt occupies.
const MaxVarIntLen = 5

// ErrVarIntTooBig is returned when a VarInt continues past MaxVarIntLen bytes.
var ErrVarIntTooBig = errors.New("decode: VarInt is too big")

// VarIntSize returns the number of bytes needed to encode v as VarInt.
func VarIntSize(v int) int {
	uv := uint32(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}

// PutVarInt encodes v into p and returns the number of bytes written.
// p must have room for VarIntSize(v) bytes.
func PutVarInt(p []byte, v int) int {
	uv := uint32(v)
	i := 0
	for uv >= 0x80 {
		p[i] = byte(uv) | 0x80
		uv >>= 7
		i++
	}
	p[i] = byte(uv)
	return i + 1
}

// VarInt decodes a VarInt from the beginning of p.
// It returns the value and the number of bytes consumed.
// n == 0 means p ended before the VarInt was complete.
func VarInt(p []byte) (v int, n int, err error) {
	var uv uint32
	for i := 0; i < len(p); i++ {
		b := p[i]
		uv |= uint32(b&0x7F) << uint32(7*i)
		if b&0x80 == 0 {
			return int(int32(uv)), i + 1, nil
		}
		if i == MaxVarIntLen-1 {
			return 0, 0, ErrVarIntTooBig
		}
	}
	return 0, 0, nil
}
