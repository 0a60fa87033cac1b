package packet

import "encoding/binary"

// Frame is one length-delimited packet from a client request body. Payload
// aliases the request buffer; decode it before the buffer is reused.
type Frame struct {
	ID      ID
	Payload []byte
}

// Frames walks the concatenated frames of a request body in arrival order.
type Frames struct {
	data []byte
}

// IterFrames returns an iterator over every frame in data.
func IterFrames(data []byte) *Frames {
	return &Frames{data: data}
}

// Next returns the next frame. It stops at the end of the buffer or as soon
// as a header or payload is truncated; Leftover tells the two cases apart.
func (f *Frames) Next() (Frame, bool) {
	if len(f.data) < HeaderLen {
		return Frame{}, false
	}

	id := ID(binary.LittleEndian.Uint16(f.data))
	length := binary.LittleEndian.Uint32(f.data[3:HeaderLen])
	if uint64(len(f.data)) < HeaderLen+uint64(length) {
		return Frame{}, false
	}

	payload := f.data[HeaderLen : HeaderLen+int(length)]
	f.data = f.data[HeaderLen+int(length):]
	return Frame{ID: id, Payload: payload}, true
}

// Leftover returns how many bytes remain unconsumed. Non-zero after Next
// reports false means the stream ended mid-frame.
func (f *Frames) Leftover() int {
	return len(f.data)
}
