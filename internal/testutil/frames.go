package testutil

import (
	"testing"

	"github.com/hikariosu/hikari/internal/packet"
)

// Frames splits a response buffer into its frames, failing on a
// truncated tail.
func Frames(t testing.TB, data []byte) []packet.Frame {
	t.Helper()

	var frames []packet.Frame
	iter := packet.IterFrames(data)
	for {
		f, ok := iter.Next()
		if !ok {
			break
		}
		frames = append(frames, f)
	}
	if left := iter.Leftover(); left > 0 {
		t.Fatalf("buffer ended mid-frame with %d bytes left", left)
	}
	return frames
}

// FindFrame returns the payload of the first frame with the given id.
func FindFrame(t testing.TB, data []byte, id packet.ID) ([]byte, bool) {
	t.Helper()

	for _, f := range Frames(t, data) {
		if f.ID == id {
			return f.Payload, true
		}
	}
	return nil, false
}

// AssertHasFrame fails unless the buffer contains a frame with the given
// id, returning its payload.
func AssertHasFrame(t testing.TB, data []byte, id packet.ID) []byte {
	t.Helper()

	payload, ok := FindFrame(t, data, id)
	if !ok {
		t.Fatalf("no %v frame in buffer (%d bytes)", id, len(data))
	}
	return payload
}

// AssertNoFrame fails when the buffer contains a frame with the given id.
func AssertNoFrame(t testing.TB, data []byte, id packet.ID) {
	t.Helper()

	if _, ok := FindFrame(t, data, id); ok {
		t.Fatalf("unexpected %v frame in buffer", id)
	}
}

// CountFrames reports how many frames in the buffer carry the given id.
func CountFrames(t testing.TB, data []byte, id packet.ID) int {
	t.Helper()

	n := 0
	for _, f := range Frames(t, data) {
		if f.ID == id {
			n++
		}
	}
	return n
}
