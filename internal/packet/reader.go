package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrStringTag is returned when a string field starts with a byte that is
// neither 0x00 (empty) nor 0x0b (length-prefixed). The dispatcher treats it
// as a protocol error and skips the frame.
var ErrStringTag = errors.New("unexpected string lead byte")

// Reader provides methods for reading packet payload data.
// Uses Little-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBool reads one byte and interprets it as a bool.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// ReadUint16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadInt16 reads an int16 (2 bytes, LE).
func (r *Reader) ReadInt16() (int16, error) {
	val, err := r.ReadUint16()
	return int16(val), err
}

// ReadInt32 reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt32() (int32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadInt32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int32(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return val, nil
}

// ReadUint32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUint32() (uint32, error) {
	val, err := r.ReadInt32()
	return uint32(val), err
}

// ReadInt64 reads an int64 (8 bytes, LE).
func (r *Reader) ReadInt64() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadInt64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return val, nil
}

// ReadFloat32 reads a float32 (4 bytes, LE).
func (r *Reader) ReadFloat32() (float32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadFloat32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	bits := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a float64 (8 bytes, LE).
func (r *Reader) ReadFloat64() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadFloat64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	bits := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadString reads an osu string: a 0x00 lead byte is the empty string,
// 0x0b is followed by a ULEB128 byte length and that many UTF-8 bytes.
// Any other lead byte fails with ErrStringTag.
func (r *Reader) ReadString() (string, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}

	switch tag {
	case 0x00:
		return "", nil
	case 0x0b:
	default:
		return "", fmt.Errorf("ReadString: %w: 0x%02x", ErrStringTag, tag)
	}

	n, err := r.readUleb128()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}

	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	return string(raw), nil
}

// readUleb128 reads an unsigned LEB128 varint.
func (r *Reader) readUleb128() (uint32, error) {
	var val uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		val |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return val, nil
		}
		shift += 7
		if shift > 28 {
			return 0, fmt.Errorf("uleb128 varint too long (pos=%d)", r.pos)
		}
	}
}

// ReadIntList reads an i32 list: u16 element count followed by the values.
func (r *Reader) ReadIntList() ([]int32, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("ReadIntList: %w", err)
	}

	vals := make([]int32, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("ReadIntList[%d]: %w", i, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ReadBytes reads n bytes as a zero-copy subslice of the internal data.
// IMPORTANT: Returned slice shares underlying array with Reader.data.
// Caller MUST NOT modify returned bytes. Use ReadBytesCopy() if mutation needed.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}

	// Zero-copy: return subslice
	raw := r.data[r.pos : r.pos+n]
	r.pos += n
	return raw, nil
}

// ReadBytesCopy reads n bytes and returns a MUTABLE COPY.
// Use this when you need to modify returned bytes.
func (r *Reader) ReadBytesCopy(n int) ([]byte, error) {
	raw, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

// ReadRemaining returns an owned copy of every unread byte. Used for opaque
// payloads (replay frame bundles, score frames) that are rebroadcast as-is.
func (r *Reader) ReadRemaining() []byte {
	out := make([]byte, len(r.data)-r.pos)
	copy(out, r.data[r.pos:])
	r.pos = len(r.data)
	return out
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
