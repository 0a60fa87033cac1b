package serverpackets

import (
	"testing"

	"github.com/hikariosu/hikari/internal/packet"
	"github.com/hikariosu/hikari/internal/testutil"
)

func TestUserIDReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   int32
	}{
		{"real user", 1001},
		{"failed", LoginFailed},
		{"old client", LoginOldClient},
		{"server error", LoginServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := UserID(tt.id)
			testutil.AssertFrameID(t, packet.ChoUserID, data)
			testutil.AssertFrameLength(t, data)
			testutil.AssertInt32LE(t, tt.id, data, packet.HeaderLen)
		})
	}
}

func TestNotification(t *testing.T) {
	t.Parallel()

	data := Notification("Welcome back!")

	testutil.AssertFrameID(t, packet.ChoNotification, data)
	testutil.AssertFrameLength(t, data)
	testutil.AssertOsuString(t, "Welcome back!", data, packet.HeaderLen)
}

func TestMenuIcon(t *testing.T) {
	t.Parallel()

	data := MenuIcon("https://example.org/icon.png", "https://example.org")

	testutil.AssertFrameID(t, packet.ChoMainMenuIcon, data)
	testutil.AssertOsuString(t, "https://example.org/icon.png|https://example.org", data, packet.HeaderLen)
}

func TestFriendsList(t *testing.T) {
	t.Parallel()

	data := FriendsList([]int32{1, 1002, 1003})

	testutil.AssertFrameID(t, packet.ChoFriendsList, data)
	testutil.AssertFrameLength(t, data)

	ids, err := packet.NewReader(data[packet.HeaderLen:]).ReadIntList()
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 1003 {
		t.Errorf("friends = %v", ids)
	}
}

func TestEmptyBodyPackets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		id   packet.ID
	}{
		{"pong", Pong(), packet.ChoPong},
		{"version update forced", VersionUpdateForced(), packet.ChoVersionUpdateForced},
		{"account restricted", AccountRestricted(), packet.ChoAccountRestricted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertFrameID(t, tt.id, tt.data)
			testutil.AssertFrameLength(t, tt.data)
			if len(tt.data) != packet.HeaderLen {
				t.Errorf("payload size = %d, want 0", len(tt.data)-packet.HeaderLen)
			}
		})
	}
}

func TestSilenceEndAndRestart(t *testing.T) {
	t.Parallel()

	data := SilenceEnd(3600)
	testutil.AssertFrameID(t, packet.ChoSilenceEnd, data)
	testutil.AssertInt32LE(t, 3600, data, packet.HeaderLen)

	data = RestartServer(0)
	testutil.AssertFrameID(t, packet.ChoRestart, data)
	testutil.AssertInt32LE(t, 0, data, packet.HeaderLen)
}
