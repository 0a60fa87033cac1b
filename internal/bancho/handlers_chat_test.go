package bancho

import (
	"context"
	"testing"
	"time"

	"github.com/hikariosu/hikari/internal/packet"
	"github.com/hikariosu/hikari/internal/testutil"
)

// stubCommands answers every command line with a fixed reply.
type stubCommands struct {
	reply string
	got   []string
}

func (c *stubCommands) Run(ctx context.Context, sender *User, message string) string {
	c.got = append(c.got, message)
	return c.reply
}

func messageFrame(id packet.ID, recipient, content string) []byte {
	return frame(id, func(w *packet.Writer) {
		packet.Message{Content: content, Recipient: recipient}.WriteTo(w)
	})
}

func readMessage(t *testing.T, payload []byte) packet.Message {
	t.Helper()
	msg, err := packet.ReadMessage(packet.NewReader(payload))
	if err != nil {
		t.Fatalf("decoding message: %v", err)
	}
	return msg
}

func TestPublicMessage(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	other := ts.addUser(t, 1002, "saltynoodle")
	ts.joinTestChannel(t, sender, "#osu")
	ts.joinTestChannel(t, other, "#osu")
	other.Dequeue()

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPublicMessage, "#osu", "anyone up for mp?"))

	// The sender's own copy stays client-side.
	testutil.AssertNoFrame(t, resp, packet.ChoSendMessage)

	payload := testutil.AssertHasFrame(t, other.Dequeue(), packet.ChoSendMessage)
	msg := readMessage(t, payload)
	if msg.Sender != "fieryrage" || msg.SenderID != 1001 {
		t.Errorf("sender = %q/%d", msg.Sender, msg.SenderID)
	}
	if msg.Content != "anyone up for mp?" || msg.Recipient != "#osu" {
		t.Errorf("message = %q to %q", msg.Content, msg.Recipient)
	}
}

func TestPublicMessageWhileSilenced(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	other := ts.addUser(t, 1002, "saltynoodle")
	ts.joinTestChannel(t, sender, "#osu")
	ts.joinTestChannel(t, other, "#osu")
	other.Dequeue()

	ts.mu.Lock()
	sender.SilenceEnd = time.Now().Unix() + 3600
	ts.mu.Unlock()

	ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPublicMessage, "#osu", "can anyone hear me"))

	testutil.AssertNoFrame(t, other.Dequeue(), packet.ChoSendMessage)
}

func TestPublicMessageRequiresMembership(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	other := ts.addUser(t, 1002, "saltynoodle")
	ts.joinTestChannel(t, other, "#osu")
	other.Dequeue()

	ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPublicMessage, "#osu", "sneaky"))

	testutil.AssertNoFrame(t, other.Dequeue(), packet.ChoSendMessage)
}

func TestPublicMessageIgnoredChannels(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	other := ts.addUser(t, 1002, "saltynoodle")
	ts.joinTestChannel(t, sender, "#osu")
	ts.joinTestChannel(t, other, "#osu")
	other.Dequeue()

	for _, name := range []string{"#highlight", "#userlog"} {
		ts.HandleRequest(context.Background(), sender,
			messageFrame(packet.OsuSendPublicMessage, name, "noise"))
	}

	testutil.AssertNoFrame(t, other.Dequeue(), packet.ChoSendMessage)
}

func TestPublicMessageSpectatorRewrite(t *testing.T) {
	ts := newTestServer(t)
	host := ts.addUser(t, 1001, "fieryrage")
	spec := ts.addUser(t, 1002, "saltynoodle")

	ts.HandleRequest(context.Background(), spec,
		frame(packet.OsuStartSpectating, func(w *packet.Writer) { w.WriteInt32(1001) }))
	host.Dequeue()

	ts.HandleRequest(context.Background(), spec,
		messageFrame(packet.OsuSendPublicMessage, "#spectator", "nice acc"))

	payload := testutil.AssertHasFrame(t, host.Dequeue(), packet.ChoSendMessage)
	msg := readMessage(t, payload)
	if msg.Content != "nice acc" || msg.Recipient != "#spectator" {
		t.Errorf("message = %q to %q", msg.Content, msg.Recipient)
	}
}

func TestPrivateMessage(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	target := ts.addUser(t, 1002, "saltynoodle")

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPrivateMessage, "saltynoodle", "hi!"))
	testutil.AssertNoFrame(t, resp, packet.ChoSendMessage)

	payload := testutil.AssertHasFrame(t, target.Dequeue(), packet.ChoSendMessage)
	msg := readMessage(t, payload)
	if msg.Sender != "fieryrage" || msg.Content != "hi!" || msg.Recipient != "saltynoodle" {
		t.Errorf("message = %+v", msg)
	}
}

func TestPrivateMessageBlocked(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	target := ts.addUser(t, 1002, "saltynoodle")

	ts.mu.Lock()
	target.Blocked = []int32{1001}
	ts.mu.Unlock()

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPrivateMessage, "saltynoodle", "hello?"))

	blockedPayload := testutil.AssertHasFrame(t, resp, packet.ChoUserDMBlocked)
	msg := readMessage(t, blockedPayload)
	if msg.Recipient != "saltynoodle" {
		t.Errorf("blocked notice names %q", msg.Recipient)
	}
	testutil.AssertNoFrame(t, target.Dequeue(), packet.ChoSendMessage)
}

func TestPrivateMessageFriendOnly(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	target := ts.addUser(t, 1002, "saltynoodle")

	ts.mu.Lock()
	target.FriendOnlyDMs = true
	ts.mu.Unlock()

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPrivateMessage, "saltynoodle", "hey"))
	testutil.AssertHasFrame(t, resp, packet.ChoUserDMBlocked)
	testutil.AssertNoFrame(t, target.Dequeue(), packet.ChoSendMessage)

	// Mutuals get through.
	ts.mu.Lock()
	target.Friends = []int32{1001}
	ts.mu.Unlock()

	ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPrivateMessage, "saltynoodle", "hey again"))
	testutil.AssertHasFrame(t, target.Dequeue(), packet.ChoSendMessage)
}

func TestPrivateMessageTargetSilenced(t *testing.T) {
	ts := newTestServer(t)
	sender := ts.addUser(t, 1001, "fieryrage")
	target := ts.addUser(t, 1002, "saltynoodle")

	ts.mu.Lock()
	target.SilenceEnd = time.Now().Unix() + 3600
	ts.mu.Unlock()

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPrivateMessage, "saltynoodle", "you there?"))

	testutil.AssertHasFrame(t, resp, packet.ChoTargetIsSilenced)
	testutil.AssertNoFrame(t, target.Dequeue(), packet.ChoSendMessage)
}

func TestBotDMRunsCommand(t *testing.T) {
	ts := newTestServer(t)
	cmds := &stubCommands{reply: "pong"}
	ts.SetCommands(cmds)
	sender := ts.addUser(t, 1001, "fieryrage")

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPrivateMessage, "hikari", "!ping"))

	if len(cmds.got) != 1 || cmds.got[0] != "!ping" {
		t.Fatalf("dispatcher saw %v", cmds.got)
	}

	payload := testutil.AssertHasFrame(t, resp, packet.ChoSendMessage)
	msg := readMessage(t, payload)
	if msg.SenderID != BotID || msg.Content != "pong" {
		t.Errorf("bot reply = %+v", msg)
	}
}

func TestChannelCommandRepliesInChannel(t *testing.T) {
	ts := newTestServer(t)
	cmds := &stubCommands{reply: "done!"}
	ts.SetCommands(cmds)
	sender := ts.addUser(t, 1001, "fieryrage")
	other := ts.addUser(t, 1002, "saltynoodle")
	ts.joinTestChannel(t, sender, "#osu")
	ts.joinTestChannel(t, other, "#osu")
	other.Dequeue()

	resp := ts.HandleRequest(context.Background(), sender,
		messageFrame(packet.OsuSendPublicMessage, "#osu", "!map rank set"))

	if len(cmds.got) != 1 || cmds.got[0] != "!map rank set" {
		t.Fatalf("dispatcher saw %v", cmds.got)
	}

	// The bot's reply reaches the sender too.
	payload := testutil.AssertHasFrame(t, resp, packet.ChoSendMessage)
	if msg := readMessage(t, payload); msg.SenderID != BotID || msg.Content != "done!" {
		t.Errorf("bot reply to sender = %+v", msg)
	}

	// The other member sees the command line and then the reply.
	if n := testutil.CountFrames(t, other.Dequeue(), packet.ChoSendMessage); n != 2 {
		t.Errorf("other member got %d messages, want 2", n)
	}
}

func TestChannelJoinAndPart(t *testing.T) {
	ts := newTestServer(t)
	u := ts.addUser(t, 1001, "fieryrage")

	resp := ts.HandleRequest(context.Background(), u,
		frame(packet.OsuChannelJoin, func(w *packet.Writer) { w.WriteString("#osu") }))

	joinPayload := testutil.AssertHasFrame(t, resp, packet.ChoChannelJoinSuccess)
	testutil.AssertOsuString(t, "#osu", joinPayload, 0)

	ts.mu.RLock()
	member := ts.channels.ByRealName("#osu").Contains(1001)
	ts.mu.RUnlock()
	if !member {
		t.Fatal("user not a member after join")
	}

	ts.HandleRequest(context.Background(), u,
		frame(packet.OsuChannelPart, func(w *packet.Writer) { w.WriteString("#osu") }))

	ts.mu.RLock()
	member = ts.channels.ByRealName("#osu").Contains(1001)
	ts.mu.RUnlock()
	if member {
		t.Fatal("user still a member after part")
	}
}

func TestChannelJoinRequiresPermission(t *testing.T) {
	ts := newTestServer(t)
	u := ts.addUser(t, 1001, "fieryrage")

	resp := ts.HandleRequest(context.Background(), u,
		frame(packet.OsuChannelJoin, func(w *packet.Writer) { w.WriteString("#announce") }))

	testutil.AssertNoFrame(t, resp, packet.ChoChannelJoinSuccess)

	ts.mu.RLock()
	member := ts.channels.ByRealName("#announce").Contains(1001)
	ts.mu.RUnlock()
	if member {
		t.Fatal("unprivileged user joined a staff channel")
	}
}
