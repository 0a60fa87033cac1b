package bancho

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hikariosu/hikari/internal/bancho/clientpackets"
	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/packet"
)

// ignoredChannels are client-side pseudo channels; traffic addressed to
// them is dropped without a warning.
var ignoredChannels = []string{"#highlight", "#userlog"}

// handlePublicMessage routes a channel message. "#spectator" and
// "#multiplayer" are rewritten to the sender's instance channel before
// lookup; everything else resolves by real name.
func (s *Server) handlePublicMessage(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseSendMessage(body)
	if err != nil {
		slog.Warn("malformed public message", "user", u.Name, "err", err)
		return
	}

	msg := strings.TrimSpace(pkt.Message.Content)
	if msg == "" {
		return
	}

	recipient := pkt.Message.Recipient
	for _, ignored := range ignoredChannels {
		if recipient == ignored {
			return
		}
	}

	s.mu.Lock()

	if u.Silenced() {
		s.mu.Unlock()
		slog.Warn("tried to chat while silenced", "user", u.Name)
		return
	}

	var c *Channel
	switch recipient {
	case "#spectator":
		hostID := u.Spectating
		if hostID == 0 {
			hostID = u.ID
		}
		c = s.channels.ByRealName(fmt.Sprintf("#spec_%d", hostID))
	case "#multiplayer":
		if u.MatchID == NoMatch {
			s.mu.Unlock()
			return
		}
		if m := s.matches.ByID(u.MatchID); m != nil {
			c = m.Chat
		}
	default:
		c = s.channels.ByRealName(recipient)
	}

	if c == nil {
		s.mu.Unlock()
		slog.Warn("tried to write to non-existent channel", "user", u.Name, "channel", recipient)
		return
	}
	if !c.Contains(u.ID) {
		s.mu.Unlock()
		slog.Warn("tried to write to a channel they are not in", "user", u.Name, "channel", recipient)
		return
	}
	if !c.HasPermission(u.Privileges) {
		s.mu.Unlock()
		slog.Warn("tried to write to a channel without permission", "user", u.Name, "channel", recipient)
		return
	}

	c.Broadcast(serverpackets.SendMessage(packet.Message{
		Sender:    u.Name,
		Content:   msg,
		Recipient: c.Name,
		SenderID:  u.ID,
	}), u.ID)
	realName := c.RealName

	s.mu.Unlock()

	s.updateActivity(ctx, u)
	slog.Info("sent message", "user", u.Name, "channel", recipient, "msg", msg)

	if strings.HasPrefix(msg, "!") {
		s.runChannelCommand(ctx, u, realName, msg)
	}
}

// handlePrivateMessage delivers a DM, applying the block, friend-only and
// silence policies in that order. Messages to the bot go to the command
// dispatcher instead.
func (s *Server) handlePrivateMessage(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseSendMessage(body)
	if err != nil {
		slog.Warn("malformed private message", "user", u.Name, "err", err)
		return
	}

	msg := strings.TrimSpace(pkt.Message.Content)
	if msg == "" {
		return
	}

	targetName := pkt.Message.Recipient

	s.mu.Lock()

	if u.Silenced() {
		s.mu.Unlock()
		slog.Warn("tried to chat while silenced", "user", u.Name)
		return
	}

	target := s.users.ByName(targetName)
	if target == nil {
		s.mu.Unlock()
		slog.Warn("tried to message an offline user", "user", u.Name, "target", targetName)
		return
	}

	if target.HasBlocked(u.ID) {
		u.Enqueue(serverpackets.PrivateMessageBlocked(targetName))
		s.mu.Unlock()
		slog.Warn("tried to message a user who blocked them", "user", u.Name, "target", targetName)
		return
	}
	if target.FriendOnlyDMs && !target.IsFriend(u.ID) {
		u.Enqueue(serverpackets.PrivateMessageBlocked(targetName))
		s.mu.Unlock()
		slog.Warn("tried to message a non-mutual with friend-only dms", "user", u.Name, "target", targetName)
		return
	}
	if target.Silenced() {
		u.Enqueue(serverpackets.TargetSilenced(targetName))
		s.mu.Unlock()
		slog.Warn("tried to message a silenced user", "user", u.Name, "target", targetName)
		return
	}

	isBot := target.IsBot()
	if !isBot {
		target.Enqueue(serverpackets.SendMessage(packet.Message{
			Sender:    u.Name,
			Content:   msg,
			Recipient: target.Name,
			SenderID:  u.ID,
		}))
	}

	s.mu.Unlock()

	s.updateActivity(ctx, u)
	slog.Info("sent private message", "user", u.Name, "target", targetName, "msg", msg)

	if isBot {
		s.runBotCommand(ctx, u, msg)
	}
}

// runChannelCommand dispatches a !command and posts the bot's reply back
// into the channel it came from, if that channel still exists.
func (s *Server) runChannelCommand(ctx context.Context, u *User, realName, msg string) {
	if s.commands == nil {
		return
	}
	reply := s.commands.Run(ctx, u, msg)
	if reply == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.channels.ByRealName(realName)
	if c == nil {
		return
	}
	c.Broadcast(serverpackets.SendMessage(packet.Message{
		Sender:    s.bot.Name,
		Content:   reply,
		Recipient: c.Name,
		SenderID:  s.bot.ID,
	}))
}

// runBotCommand feeds a bot DM through the command dispatcher and mails
// the reply back.
func (s *Server) runBotCommand(ctx context.Context, u *User, msg string) {
	if s.commands == nil {
		return
	}
	if reply := s.commands.Run(ctx, u, msg); reply != "" {
		s.botMessage(u, reply)
	}
}

// botMessage enqueues a DM from the bot to the user.
func (s *Server) botMessage(u *User, content string) {
	u.Enqueue(serverpackets.SendMessage(packet.Message{
		Sender:    s.bot.Name,
		Content:   content,
		Recipient: u.Name,
		SenderID:  s.bot.ID,
	}))
}
