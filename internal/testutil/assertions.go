// Package testutil carries the shared wire-level test helpers: frame
// header checks, typed value extraction and multi-frame buffer walking.
package testutil

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hikariosu/hikari/internal/packet"
)

// AssertFrameID checks the packet id in a frame header.
func AssertFrameID(t testing.TB, want packet.ID, data []byte) {
	t.Helper()

	if len(data) < packet.HeaderLen {
		t.Fatalf("frame too short for a header: %d bytes", len(data))
	}
	got := packet.ID(binary.LittleEndian.Uint16(data))
	if got != want {
		t.Fatalf("frame id = %v, want %v", got, want)
	}
}

// AssertFrameLength checks that the header's declared payload length
// matches the bytes that follow it.
func AssertFrameLength(t testing.TB, data []byte) {
	t.Helper()

	if len(data) < packet.HeaderLen {
		t.Fatalf("frame too short for a header: %d bytes", len(data))
	}
	declared := binary.LittleEndian.Uint32(data[3:packet.HeaderLen])
	if int(declared) != len(data)-packet.HeaderLen {
		t.Fatalf("declared payload length = %d, want %d", declared, len(data)-packet.HeaderLen)
	}
}

// AssertInt32LE checks a little-endian int32 at offset.
func AssertInt32LE(t testing.TB, want int32, data []byte, offset int) {
	t.Helper()

	if len(data) < offset+4 {
		t.Fatalf("need %d bytes for int32 at offset %d, got %d", offset+4, offset, len(data))
	}
	got := int32(binary.LittleEndian.Uint32(data[offset:]))
	if got != want {
		t.Fatalf("int32 at offset %d = %d, want %d", offset, got, want)
	}
}

// AssertByteAtOffset checks a single byte at offset.
func AssertByteAtOffset(t testing.TB, want byte, data []byte, offset int) {
	t.Helper()

	if len(data) <= offset {
		t.Fatalf("need %d bytes, got %d", offset+1, len(data))
	}
	if data[offset] != want {
		t.Fatalf("byte at offset %d = 0x%02X, want 0x%02X", offset, data[offset], want)
	}
}

// AssertBytesEqual checks two byte slices byte for byte.
func AssertBytesEqual(t testing.TB, want, got []byte, label string) {
	t.Helper()

	if !bytes.Equal(want, got) {
		t.Fatalf("%s = % X, want % X", label, got, want)
	}
}

// AssertOsuString checks the length-prefixed string field at offset.
func AssertOsuString(t testing.TB, want string, data []byte, offset int) {
	t.Helper()

	if len(data) < offset {
		t.Fatalf("need at least %d bytes, got %d", offset, len(data))
	}
	got, err := packet.NewReader(data[offset:]).ReadString()
	if err != nil {
		t.Fatalf("reading string at offset %d: %v", offset, err)
	}
	if got != want {
		t.Fatalf("string at offset %d = %q, want %q", offset, got, want)
	}
}
