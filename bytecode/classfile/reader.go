package classfile

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/pkg/errors"
)

var errTruncated = errors.New("truncated class file")

// reader is a cursor over a class file image. The first out-of-bounds read
// records errTruncated and every later read yields zero.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.buf) {
		r.err = errors.Wrapf(errTruncated, "reading %d bytes at offset %d", n, r.pos)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u1() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u2() uint16 {
	if b := r.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u4() uint32 {
	if b := r.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *reader) u8() uint64 {
	if b := r.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (r *reader) s1() int { return int(int8(r.u1())) }
func (r *reader) s2() int { return int(int16(r.u2())) }
func (r *reader) s4() int { return int(int32(r.u4())) }

func (r *reader) f4() float32 { return math.Float32frombits(r.u4()) }
func (r *reader) f8() float64 { return math.Float64frombits(r.u8()) }

// decodeModifiedUTF8 decodes the JVM's modified UTF-8, which encodes NUL as
// two bytes and supplementary characters as surrogate pairs.
func decodeModifiedUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", errors.Errorf("malformed modified UTF-8 at byte %d", i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", errors.Errorf("malformed modified UTF-8 at byte %d", i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", errors.Errorf("malformed modified UTF-8 at byte %d", i)
		}
	}
	return string(utf16.Decode(units)), nil
}
