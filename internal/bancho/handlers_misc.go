package bancho

import (
	"context"
	"log/slog"
	"time"

	"github.com/hikariosu/hikari/internal/bancho/clientpackets"
	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
)

// handleChangeAction applies the client's status report and republishes
// the user's stats to everyone online.
func (s *Server) handleChangeAction(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseChangeAction(body)
	if err != nil {
		slog.Warn("malformed change action", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u.Status.Action = pkt.Action
	u.Status.InfoText = pkt.InfoText
	u.Status.MapMD5 = pkt.MapMD5
	u.Status.Mods = pkt.Mods
	u.Status.Mode = pkt.Mode
	u.Status.MapID = pkt.MapID

	if !u.Restricted() {
		s.users.Broadcast(u.StatsPacket())
	}
}

// handleLogout tears the session down. A logout arriving within a second
// of login is the client's usual double-send and is ignored.
func (s *Server) handleLogout(ctx context.Context, u *User, body []byte) {
	if time.Now().Unix()-u.LoginTime < 1 {
		return
	}

	s.mu.Lock()
	s.logout(u)
	s.mu.Unlock()

	s.updateActivity(ctx, u)
	slog.Info("user logged out", "user", u.Name)
}

func (s *Server) handleRequestStatusUpdate(ctx context.Context, u *User, body []byte) {
	s.mu.RLock()
	data := u.StatsPacket()
	s.mu.RUnlock()

	u.Enqueue(data)
}

// handlePing keeps idle polls from being reported as unknown packets.
func (s *Server) handlePing(ctx context.Context, u *User, body []byte) {}

func (s *Server) handleFriendAdd(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseFriend(body)
	if err != nil {
		slog.Warn("malformed friend add", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	target := s.users.ByID(pkt.TargetID)
	if target == nil {
		s.mu.Unlock()
		slog.Warn("tried to friend an offline user", "user", u.Name, "target_id", pkt.TargetID)
		return
	}
	if target.IsBot() {
		s.mu.Unlock()
		return
	}
	if target.HasBlocked(u.ID) {
		s.mu.Unlock()
		slog.Warn("tried to friend a user who blocked them", "user", u.Name, "target", target.Name)
		return
	}
	if u.IsFriend(target.ID) {
		s.mu.Unlock()
		slog.Warn("tried to friend a user already in their friends list", "user", u.Name, "target", target.Name)
		return
	}
	u.Friends = append(u.Friends, target.ID)
	s.mu.Unlock()

	s.updateActivity(ctx, u)
	if err := s.store.AddFriend(ctx, u.ID, target.ID); err != nil {
		slog.Error("storing friend add", "user", u.Name, "target", target.Name, "err", err)
		return
	}

	slog.Info("added friend", "user", u.Name, "target", target.Name)
}

func (s *Server) handleFriendRemove(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseFriend(body)
	if err != nil {
		slog.Warn("malformed friend remove", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	target := s.users.ByID(pkt.TargetID)
	if target == nil {
		s.mu.Unlock()
		slog.Warn("tried to unfriend an offline user", "user", u.Name, "target_id", pkt.TargetID)
		return
	}
	if target.IsBot() {
		s.mu.Unlock()
		return
	}
	if !u.IsFriend(target.ID) {
		s.mu.Unlock()
		slog.Warn("tried to unfriend a user not in their friends list", "user", u.Name, "target", target.Name)
		return
	}
	u.Friends = removeID(u.Friends, target.ID)
	s.mu.Unlock()

	s.updateActivity(ctx, u)
	if err := s.store.RemoveFriend(ctx, u.ID, target.ID); err != nil {
		slog.Error("storing friend remove", "user", u.Name, "target", target.Name, "err", err)
		return
	}

	slog.Info("removed friend", "user", u.Name, "target", target.Name)
}

func (s *Server) handleToggleDMs(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseToggleDMs(body)
	if err != nil {
		slog.Warn("malformed dm toggle", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	u.FriendOnlyDMs = pkt.Value == 1
	s.mu.Unlock()

	s.updateActivity(ctx, u)
}

// handleUserStatsRequest refreshes the stats panels the client still has
// open. Offline, restricted and own ids are skipped.
func (s *Server) handleUserStatsRequest(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseUserIDList(body)
	if err != nil {
		slog.Warn("malformed stats request", "user", u.Name, "err", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range pkt.UserIDs {
		if id == u.ID {
			continue
		}
		target := s.users.ByID(id)
		if target == nil || target.Restricted() {
			continue
		}
		u.Enqueue(target.StatsPacket())
	}
}

func (s *Server) handleUserPresenceRequest(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseUserIDList(body)
	if err != nil {
		slog.Warn("malformed presence request", "user", u.Name, "err", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range pkt.UserIDs {
		if id == u.ID {
			continue
		}
		target := s.users.ByID(id)
		if target == nil || target.Restricted() {
			continue
		}
		u.Enqueue(target.PresencePacket())
	}
}

// handleUserPresenceRequestAll answers the tourney client's full roster
// pull with one buffered write, the sender included.
func (s *Server) handleUserPresenceRequestAll(ctx context.Context, u *User, body []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var buf []byte
	s.users.ForEach(func(t *User) {
		if t.Restricted() {
			return
		}
		buf = append(buf, t.PresencePacket()...)
	})

	u.Enqueue(buf)
}

// handleJoinLobby flags the session as browsing multiplayer and replays
// every live match into its queue.
func (s *Server) handleJoinLobby(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.InLobby = true
	s.matches.ForEach(func(m *Match) {
		u.Enqueue(serverpackets.NewMatch(m.WireState()))
	})
}

func (s *Server) handlePartLobby(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	u.InLobby = false
	s.mu.Unlock()
}

func (s *Server) handleChannelJoin(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseChannel(body)
	if err != nil {
		slog.Warn("malformed channel join", "user", u.Name, "err", err)
		return
	}

	for _, ignored := range ignoredChannels {
		if pkt.Name == ignored {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.channels.ByRealName(pkt.Name)
	if c == nil {
		slog.Warn("tried to join non-existent channel", "user", u.Name, "channel", pkt.Name)
		return
	}

	s.joinChannel(u, c)
}

func (s *Server) handleChannelPart(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseChannel(body)
	if err != nil {
		slog.Warn("malformed channel part", "user", u.Name, "err", err)
		return
	}

	for _, ignored := range ignoredChannels {
		if pkt.Name == ignored {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.channels.ByRealName(pkt.Name)
	if c == nil {
		if len(pkt.Name) > 0 && pkt.Name[0] == '#' {
			slog.Warn("tried to leave non-existent channel", "user", u.Name, "channel", pkt.Name)
		}
		return
	}

	if !c.Contains(u.ID) {
		slog.Warn("tried to leave a channel they are not in", "user", u.Name, "channel", pkt.Name)
		return
	}

	s.leaveChannel(u, c, false)
}
