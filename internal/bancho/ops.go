package bancho

import (
	"fmt"
	"log/slog"

	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/model"
)

// The operations in this file mutate the session graph and assume the
// caller holds s.mu. Handlers take the lock, call these, release it, and
// only then touch the store.

func removeID(ids []int32, id int32) []int32 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeString(names []string, name string) []string {
	for i, v := range names {
		if v == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}

// broadcastChannelInfo fans a channel's updated listing out: instance
// channels tell only their members, public channels tell every session
// permitted to see them.
func (s *Server) broadcastChannelInfo(c *Channel) {
	info := serverpackets.ChannelInfo(c.Info())
	if c.Instance {
		c.Broadcast(info)
		return
	}

	s.users.ForEach(func(target *User) {
		if c.HasPermission(target.Privileges) {
			target.Enqueue(info)
		}
	})
}

// joinChannel adds the user to a channel and reports success. Refused when
// already a member, lacking permission, or entering #lobby without the
// lobby flag set.
func (s *Server) joinChannel(u *User, c *Channel) bool {
	if c.Contains(u.ID) || !c.HasPermission(u.Privileges) || (c.RealName == "#lobby" && !u.InLobby) {
		return false
	}

	c.addMember(u)
	u.Channels = append(u.Channels, c.RealName)

	u.Enqueue(serverpackets.ChannelJoinSuccess(c.Name))
	s.broadcastChannelInfo(c)

	slog.Info("user joined channel", "user", u.Name, "channel", c.RealName)
	return true
}

// leaveChannel removes the user, kicking the client's tab shut when kick
// is set. An instance channel left empty is dropped from the registry.
func (s *Server) leaveChannel(u *User, c *Channel, kick bool) {
	if !c.Contains(u.ID) {
		return
	}

	c.removeMember(u)
	u.Channels = removeString(u.Channels, c.RealName)

	if kick {
		u.Enqueue(serverpackets.ChannelKick(c.Name))
	}

	if c.Instance && c.MemberCount() == 0 {
		s.channels.Remove(c)
	} else {
		s.broadcastChannelInfo(c)
	}

	slog.Info("user left channel", "user", u.Name, "channel", c.RealName)
}

// addSpectator attaches u to host's spectator crowd, creating the
// #spec_<host_id> channel on first use.
func (s *Server) addSpectator(host, u *User) {
	specName := fmt.Sprintf("#spec_%d", host.ID)

	c := s.channels.ByRealName(specName)
	if c == nil {
		c = NewInstanceChannel("#spectator", specName, fmt.Sprintf("%s's spectator channel", host.Name))
		s.joinChannel(host, c)
		s.channels.Add(c)
	}

	if !s.joinChannel(u, c) {
		slog.Warn("failed to join spectator channel", "user", u.Name, "channel", specName)
	}

	if !u.Stealth {
		fellowJoined := serverpackets.FellowSpectatorJoined(u.ID)
		for _, id := range host.Spectators {
			if spec := s.users.ByID(id); spec != nil {
				spec.Enqueue(fellowJoined)
				u.Enqueue(serverpackets.FellowSpectatorJoined(spec.ID))
			}
		}

		host.Enqueue(serverpackets.HostSpectatorJoined(u.ID))
	} else {
		for _, id := range host.Spectators {
			if spec := s.users.ByID(id); spec != nil {
				u.Enqueue(serverpackets.FellowSpectatorJoined(spec.ID))
			}
		}
	}

	host.Spectators = append(host.Spectators, u.ID)
	u.Spectating = host.ID

	slog.Info("user started spectating", "user", u.Name, "host", host.Name)
}

// removeSpectator detaches u from host's crowd. The host follows out of
// the spectator channel once nobody is left watching.
func (s *Server) removeSpectator(host, u *User) {
	host.Spectators = removeID(host.Spectators, u.ID)
	u.Spectating = 0

	if c := s.channels.ByRealName(fmt.Sprintf("#spec_%d", host.ID)); c != nil {
		s.leaveChannel(u, c, false)

		if len(host.Spectators) == 0 {
			s.leaveChannel(host, c, false)
		} else {
			info := serverpackets.ChannelInfo(c.Info())
			fellowLeft := serverpackets.FellowSpectatorLeft(u.ID)

			host.Enqueue(info)
			for _, id := range host.Spectators {
				if spec := s.users.ByID(id); spec != nil {
					spec.Enqueue(fellowLeft)
					spec.Enqueue(info)
				}
			}
		}
	}

	host.Enqueue(serverpackets.HostSpectatorLeft(u.ID))

	slog.Info("user stopped spectating", "user", u.Name, "host", host.Name)
}

// matchBroadcast enqueues data to everyone in the match chat, and to the
// lobby listing when lobby is set.
func (s *Server) matchBroadcast(m *Match, data []byte, lobby bool, immune ...int32) {
	m.Chat.Broadcast(data, immune...)

	if lobby {
		if lobbyChat := s.channels.ByRealName("#lobby"); lobbyChat != nil && lobbyChat.MemberCount() > 0 {
			lobbyChat.Broadcast(data)
		}
	}
}

// broadcastMatchState pushes the authoritative match snapshot: players see
// the password, the lobby listing sees it masked.
func (s *Server) broadcastMatchState(m *Match, lobby bool) {
	state := m.WireState()
	m.Chat.Broadcast(serverpackets.UpdateMatch(state, true))

	if lobby {
		if lobbyChat := s.channels.ByRealName("#lobby"); lobbyChat != nil && lobbyChat.MemberCount() > 0 {
			lobbyChat.Broadcast(serverpackets.UpdateMatch(state, false))
		}
	}
}

// joinMatch seats the user, reporting success. The host bypasses the
// password and always takes slot 0; staff bypass the password check.
func (s *Server) joinMatch(u *User, m *Match, password string) bool {
	if u.MatchID != NoMatch {
		slog.Warn("user already in a match", "user", u.Name, "match", m.Name)
		u.Enqueue(serverpackets.MatchJoinFail())
		return false
	}

	if _, observer := m.TourneyClients[u.ID]; observer {
		u.Enqueue(serverpackets.MatchJoinFail())
		return false
	}

	slotID := 0
	if u.ID != m.HostID {
		if password != m.Password && !u.Staff() {
			slog.Warn("wrong match password", "user", u.Name, "match", m.Name)
			u.Enqueue(serverpackets.MatchJoinFail())
			return false
		}

		if slotID = m.FreeSlot(); slotID == -1 {
			slog.Warn("match is full", "user", u.Name, "match", m.Name)
			u.Enqueue(serverpackets.MatchJoinFail())
			return false
		}
	}

	if !s.joinChannel(u, m.Chat) {
		slog.Warn("failed to join match channel", "user", u.Name, "channel", m.Chat.RealName)
		return false
	}

	if lobby := s.channels.ByRealName("#lobby"); lobby != nil && u.InChannel("#lobby") {
		s.leaveChannel(u, lobby, false)
	}

	slot := &m.Slots[slotID]
	if m.TeamType.Teamed() {
		slot.Team = model.TeamRed
	}
	slot.Status = model.SlotNotReady
	slot.User = u

	u.MatchID = m.ID
	u.Enqueue(serverpackets.MatchJoinSuccess(m.WireState()))
	s.broadcastMatchState(m, true)

	return true
}

// leaveMatch unseats the user. The last player out disposes the match;
// a departing host hands the lobby to the next occupied slot.
func (s *Server) leaveMatch(u *User) {
	m := s.matches.ByID(u.MatchID)
	if m == nil {
		slog.Warn("user not in a match", "user", u.Name)
		u.MatchID = NoMatch
		return
	}

	if slot := m.SlotOf(u.ID); slot != nil {
		newStatus := model.SlotOpen
		if slot.Status == model.SlotLocked {
			newStatus = model.SlotLocked
		}
		slot.Reset(newStatus)
	}

	s.leaveChannel(u, m.Chat, false)

	if m.IsEmpty() {
		slog.Info("disposing empty match", "match", m.Name, "id", m.ID)

		s.matches.Remove(m)
		if lobby := s.channels.ByRealName("#lobby"); lobby != nil {
			lobby.Broadcast(serverpackets.DisposeMatch(m.ID))
		}
	} else {
		if u.ID == m.HostID {
			for i := range m.Slots {
				if m.Slots[i].User != nil {
					m.HostID = m.Slots[i].User.ID
					m.Slots[i].User.Enqueue(serverpackets.MatchTransferHost())
					break
				}
			}
		}

		s.broadcastMatchState(m, true)
	}

	u.MatchID = NoMatch
}

// startMatch flips every seated player into the playing state except those
// without the map, who stay behind and skip the start packet.
func (s *Server) startMatch(m *Match) {
	var missingMap []int32

	for i := range m.Slots {
		slot := &m.Slots[i]
		if slot.User == nil {
			continue
		}
		if slot.Status == model.SlotNoMap {
			missingMap = append(missingMap, slot.User.ID)
		} else {
			slot.Status = model.SlotPlaying
		}
	}

	m.InProgress = true
	s.matchBroadcast(m, serverpackets.MatchStart(m.WireState()), false, missingMap...)
	s.broadcastMatchState(m, true)
}

// logout tears a session down: spectating, match seat, channel
// memberships, registry entry, and the departure broadcast. Restricted
// sessions leave silently.
func (s *Server) logout(u *User) {
	if u.Spectating != 0 {
		if host := s.users.ByID(u.Spectating); host != nil {
			s.removeSpectator(host, u)
		}
	}

	if u.MatchID != NoMatch {
		s.leaveMatch(u)
	}

	for _, name := range append([]string(nil), u.Channels...) {
		c := s.channels.ByRealName(name)
		if c == nil {
			continue
		}
		c.removeMember(u)
		if c.Instance && c.MemberCount() == 0 {
			s.channels.Remove(c)
		}
	}
	u.Channels = nil

	s.users.Remove(u)
	u.Token = ""

	if !u.Restricted() {
		s.users.Broadcast(serverpackets.Logout(u.ID))
	}

	slog.Info("user logged out", "user", u.Name)
}

// Silence applies a chat mute until end (unix seconds) to a live session:
// the target learns its remaining time, everyone else clears the user's
// pending messages.
func (s *Server) Silence(u *User, end int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.SilenceEnd = end
	u.Enqueue(serverpackets.SilenceEnd(u.RemainingSilence()))
	s.users.Broadcast(serverpackets.UserSilenced(u.ID), u.ID)
}

// Unsilence lifts a live session's mute.
func (s *Server) Unsilence(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.SilenceEnd = 0
	u.Enqueue(serverpackets.SilenceEnd(0))
}

// ForceLogout evicts a session immediately.
func (s *Server) ForceLogout(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logout(u)
}

// LastNp returns the beatmap id of the user's latest /np, 0 when none.
func (s *Server) LastNp(u *User) int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return u.LastNpID
}

// UserPrivileges reads a session's privileges under the world lock.
func (s *Server) UserPrivileges(u *User) model.Privileges {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return u.Privileges
}

// SetLastNp remembers the beatmap id of the user's latest /np.
func (s *Server) SetLastNp(u *User, mapID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.LastNpID = mapID
}
