package packet

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
)

// HeaderLen is the size of a bancho frame header:
// u16 packet id, one pad byte, u32 payload length, all little-endian.
const HeaderLen = 7

// Writer provides methods for writing packet data.
// Uses Little-Endian byte order for all multi-byte values.
type Writer struct {
	buf *bytes.Buffer
}

// writerPool reduces allocations by reusing Writers.
// Get() returns a Writer primed with a frame header, Put() returns it to pool.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf: bytes.NewBuffer(make([]byte, 0, 512)),
		}
	},
}

// Get returns a pooled Writer with the frame header for id already written.
// The length field is left zero and patched by Finish.
func Get(id ID) *Writer {
	w := writerPool.Get().(*Writer)
	w.buf.Reset()
	w.WriteUint16(uint16(id))
	w.buf.WriteByte(0)
	w.WriteUint32(0)
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new headerless packet writer with the given initial
// capacity. Used for compound payloads that are framed elsewhere.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// Finish patches the header length field and returns an owned copy of the
// frame. The Writer still has to be Put back afterwards.
func (w *Writer) Finish() []byte {
	b := w.buf.Bytes()
	binary.LittleEndian.PutUint32(b[3:HeaderLen], uint32(len(b)-HeaderLen))
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBool writes a bool as one byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUint16 writes a uint16 (2 bytes, LE).
func (w *Writer) WriteUint16(val uint16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteInt16 writes an int16 (2 bytes, LE).
func (w *Writer) WriteInt16(val int16) {
	w.WriteUint16(uint16(val))
}

// WriteInt32 writes an int32 (4 bytes, LE).
// Optimized: manual encoding instead of binary.Write.
func (w *Writer) WriteInt32(val int32) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteUint32 writes a uint32 (4 bytes, LE).
func (w *Writer) WriteUint32(val uint32) {
	w.WriteInt32(int32(val))
}

// WriteInt64 writes an int64 (8 bytes, LE).
func (w *Writer) WriteInt64(val int64) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
	w.buf.WriteByte(byte(val >> 32))
	w.buf.WriteByte(byte(val >> 40))
	w.buf.WriteByte(byte(val >> 48))
	w.buf.WriteByte(byte(val >> 56))
}

// WriteFloat32 writes a float32 (4 bytes, LE).
// Uses binary.LittleEndian.PutUint32 for correct IEEE 754 encoding.
func (w *Writer) WriteFloat32(val float32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(val))
	w.buf.Write(tmp[:])
}

// WriteFloat64 writes a float64 (8 bytes, LE).
func (w *Writer) WriteFloat64(val float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(val))
	w.buf.Write(tmp[:])
}

// WriteString writes an osu string: 0x00 for empty, otherwise 0x0b followed
// by a ULEB128 byte length and the raw UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	if len(s) == 0 {
		w.buf.WriteByte(0x00)
		return
	}
	w.buf.WriteByte(0x0b)
	w.writeUleb128(uint32(len(s)))
	w.buf.WriteString(s)
}

// writeUleb128 writes an unsigned LEB128 varint.
func (w *Writer) writeUleb128(val uint32) {
	for {
		b := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if val == 0 {
			return
		}
	}
}

// WriteIntList writes an i32 list: u16 element count followed by the values.
func (w *Writer) WriteIntList(vals []int32) {
	w.WriteUint16(uint16(len(vals)))
	for _, v := range vals {
		w.WriteInt32(v)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated packet data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the packet.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}
