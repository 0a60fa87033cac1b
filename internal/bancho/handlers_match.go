package bancho

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hikariosu/hikari/internal/bancho/clientpackets"
	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
)

// matchOf returns the match the user is seated in, nil when none.
// Caller holds s.mu.
func (s *Server) matchOf(u *User) *Match {
	if u.MatchID == NoMatch {
		return nil
	}
	return s.matches.ByID(u.MatchID)
}

// matchChat posts a bot line into the match channel. Caller holds s.mu.
func (s *Server) matchChat(m *Match, content string) {
	if m.Chat == nil {
		return
	}
	m.Chat.Broadcast(serverpackets.SendMessage(packet.Message{
		Sender:    s.bot.Name,
		Content:   content,
		Recipient: m.Chat.Name,
		SenderID:  s.bot.ID,
	}))
}

// handleCreateMatch allocates a lobby from the client's settings, creates
// its chat channel and seats the creator as host.
func (s *Server) handleCreateMatch(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchSettings(body)
	if err != nil {
		slog.Warn("malformed match settings", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()

	if u.Silenced() {
		u.Enqueue(serverpackets.MatchJoinFail())
		u.Enqueue(serverpackets.Notification("Multiplayer is not available while silenced."))
		s.mu.Unlock()
		return
	}

	m := s.matches.Create()
	if m == nil {
		s.botMessage(u, "Failed to create match (no slots are left)")
		u.Enqueue(serverpackets.MatchJoinFail())
		s.mu.Unlock()
		return
	}
	m.InitFromState(pkt.Match)

	chat := NewInstanceChannel(
		"#multiplayer",
		fmt.Sprintf("#multi_%d", m.ID),
		fmt.Sprintf("Match ID %d's multiplayer channel", m.ID),
	)
	s.channels.Add(chat)
	m.Chat = chat

	if !s.joinMatch(u, m, m.Password) {
		s.channels.Remove(chat)
		s.matches.Remove(m)
		s.mu.Unlock()
		return
	}
	name := m.Name
	s.mu.Unlock()

	s.updateActivity(ctx, u)
	slog.Info("created multiplayer match", "user", u.Name, "match", name)
}

func (s *Server) handleJoinMatch(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseJoinMatch(body)
	if err != nil {
		slog.Warn("malformed match join", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()

	if u.Silenced() {
		u.Enqueue(serverpackets.MatchJoinFail())
		u.Enqueue(serverpackets.Notification("Multiplayer is not available while silenced."))
		s.mu.Unlock()
		return
	}

	m := s.matches.ByID(pkt.MatchID)
	if m == nil {
		u.Enqueue(serverpackets.MatchJoinFail())
		s.mu.Unlock()
		slog.Warn("tried to join non-existent match", "user", u.Name, "match_id", pkt.MatchID)
		return
	}

	s.joinMatch(u, m, pkt.Password)
	s.mu.Unlock()

	s.updateActivity(ctx, u)
}

func (s *Server) handlePartMatch(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	s.leaveMatch(u)
	s.mu.Unlock()

	s.updateActivity(ctx, u)
}

func (s *Server) handleMatchChangeSlot(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchSlot(body)
	if err != nil {
		slog.Warn("malformed slot change", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	if pkt.SlotID < 0 || pkt.SlotID >= packet.MatchSlots {
		return
	}
	if m.Slots[pkt.SlotID].Status != model.SlotOpen {
		slog.Warn("tried to move into a non-open slot", "user", u.Name)
		return
	}

	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	m.Slots[pkt.SlotID].CopyFrom(slot)
	slot.Reset(model.SlotOpen)

	s.broadcastMatchState(m, true)
}

func (s *Server) handleMatchReady(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Status = model.SlotReady
	s.broadcastMatchState(m, true)
}

// handleMatchLock toggles a slot between locked and open. The host's own
// slot can never be locked.
func (s *Server) handleMatchLock(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchSlot(body)
	if err != nil {
		slog.Warn("malformed slot lock", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	if m.HostID != u.ID {
		slog.Warn("tried to lock match slot as non-host", "user", u.Name)
		return
	}
	if pkt.SlotID < 0 || pkt.SlotID >= packet.MatchSlots {
		return
	}

	slot := &m.Slots[pkt.SlotID]
	if slot.Status == model.SlotLocked {
		slot.Status = model.SlotOpen
	} else {
		if slot.User != nil && slot.User.ID == m.HostID {
			return
		}
		slot.Status = model.SlotLocked
	}

	s.broadcastMatchState(m, true)
}

// handleMatchChangeSettings applies the host's settings sheet: the freemod
// toggle moves mods between match and slots, picking a map is only
// accepted while none is set, and team arrangement changes re-team every
// occupied slot.
func (s *Server) handleMatchChangeSettings(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchSettings(body)
	if err != nil {
		slog.Warn("malformed match settings", "user", u.Name, "err", err)
		return
	}
	in := pkt.Match

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	if m.HostID != u.ID {
		slog.Warn("tried to change match settings as non-host", "user", u.Name)
		return
	}

	if in.Freemod != m.Freemod {
		m.Freemod = in.Freemod

		if in.Freemod {
			for i := range m.Slots {
				if m.Slots[i].Status.Occupied() {
					m.Slots[i].Mods = m.Mods &^ model.SpeedMods
				}
			}
			m.Mods &= model.SpeedMods
		} else {
			if host := m.HostSlot(); host != nil {
				host.Mods &= model.SpeedMods
				m.Mods |= host.Mods
			}
			for i := range m.Slots {
				if m.Slots[i].Status.Occupied() {
					m.Slots[i].Mods = model.ModNomod
				}
			}
		}
	}

	if in.MapID == -1 {
		m.UnreadySlots(model.SlotReady)
		m.LastMapID = m.MapID

		m.MapID = -1
		m.MapMD5 = ""
		m.MapName = ""
	} else if m.MapID == -1 {
		m.MapID = in.MapID
		m.MapMD5 = in.MapMD5
		m.MapName = in.MapName
		m.Mode = in.Mode

		if m.LastMapID != in.MapID {
			s.matchChat(m, "Selected: "+m.MapEmbed(s.cfg.ServerDomain))
		}
	}

	if in.TeamType != m.TeamType {
		var team model.Team
		if in.TeamType == model.TeamTypeHeadToHead || in.TeamType == model.TeamTypeTagCoop {
			team = model.TeamNeutral
		} else {
			team = model.TeamRed
		}

		for i := range m.Slots {
			if m.Slots[i].Status.Occupied() {
				m.Slots[i].Team = team
			}
		}
		m.TeamType = in.TeamType
	}

	m.WinCondition = in.WinCondition
	m.Name = in.Name

	s.broadcastMatchState(m, true)
}

func (s *Server) handleMatchStart(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	if m.HostID != u.ID {
		slog.Warn("tried to start match as non-host", "user", u.Name)
		return
	}

	s.startMatch(m)
}

// handleMatchScoreUpdate relays a live score frame to the other players.
// The frame is reframed raw with the sender's slot id patched in; this is
// the hottest packet in a running match.
func (s *Server) handleMatchScoreUpdate(ctx context.Context, u *User, body []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slotID := m.SlotIDOf(u.ID)
	if slotID < 0 {
		return
	}

	s.matchBroadcast(m, serverpackets.MatchScoreFrame(body, byte(slotID)), false)
}

// handleMatchComplete marks the sender done and, once nobody is left
// playing, resolves the round. Players who never started stay out of the
// completion fan-out.
func (s *Server) handleMatchComplete(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Status = model.SlotComplete

	for i := range m.Slots {
		if m.Slots[i].Status == model.SlotPlaying {
			return
		}
	}

	var notPlaying []int32
	for i := range m.Slots {
		if m.Slots[i].Status.Occupied() && m.Slots[i].Status != model.SlotComplete {
			notPlaying = append(notPlaying, m.Slots[i].User.ID)
		}
	}

	m.UnreadySlots(model.SlotComplete)
	m.InProgress = false

	s.matchBroadcast(m, serverpackets.MatchComplete(), false, notPlaying...)
	s.broadcastMatchState(m, true)
}

// handleMatchChangeMods applies a mod change. Under freemod the host moves
// the shared speed mods and every player owns the rest; otherwise only the
// host may touch mods at all.
func (s *Server) handleMatchChangeMods(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchMods(body)
	if err != nil {
		slog.Warn("malformed mods change", "user", u.Name, "err", err)
		return
	}
	mods := model.Mods(pkt.Mods)

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}

	if m.Freemod {
		if m.HostID == u.ID {
			m.Mods = mods & model.SpeedMods
		}
		slot := m.SlotOf(u.ID)
		if slot == nil {
			return
		}
		slot.Mods = mods &^ model.SpeedMods
	} else {
		if m.HostID != u.ID {
			slog.Warn("tried to change mods as non-host", "user", u.Name)
			return
		}
		m.Mods = mods
	}

	s.broadcastMatchState(m, true)
}

func (s *Server) handleMatchLoadComplete(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Loaded = true

	for i := range m.Slots {
		if m.Slots[i].Status == model.SlotPlaying && !m.Slots[i].Loaded {
			return
		}
	}

	s.matchBroadcast(m, serverpackets.MatchAllPlayersLoaded(), false)
}

func (s *Server) handleMatchNoBeatmap(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Status = model.SlotNoMap
	s.broadcastMatchState(m, false)
}

func (s *Server) handleMatchNotReady(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Status = model.SlotNotReady
	s.broadcastMatchState(m, false)
}

func (s *Server) handleMatchFailed(ctx context.Context, u *User, body []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slotID := m.SlotIDOf(u.ID)
	if slotID < 0 {
		return
	}

	s.matchBroadcast(m, serverpackets.MatchPlayerFailed(int32(slotID)), false)
}

func (s *Server) handleMatchHasBeatmap(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Status = model.SlotNotReady
	s.broadcastMatchState(m, false)
}

// handleMatchSkipRequest records the skip vote and fires the shared skip
// once every playing slot has voted.
func (s *Server) handleMatchSkipRequest(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	slot.Skipped = true
	s.matchBroadcast(m, serverpackets.MatchPlayerSkipped(u.ID), true)

	for i := range m.Slots {
		if m.Slots[i].Status == model.SlotPlaying && !m.Slots[i].Skipped {
			return
		}
	}

	s.matchBroadcast(m, serverpackets.MatchSkip(), false)
}

func (s *Server) handleMatchTransferHost(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchSlot(body)
	if err != nil {
		slog.Warn("malformed host transfer", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	if m.HostID != u.ID {
		slog.Warn("tried to transfer host as non-host", "user", u.Name)
		return
	}
	if pkt.SlotID < 0 || pkt.SlotID >= packet.MatchSlots {
		return
	}

	target := m.Slots[pkt.SlotID].User
	if target == nil {
		slog.Warn("tried to transfer host to an empty slot", "user", u.Name)
		return
	}

	m.HostID = target.ID
	target.Enqueue(serverpackets.MatchTransferHost())
	s.broadcastMatchState(m, true)
}

func (s *Server) handleMatchChangeTeam(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	slot := m.SlotOf(u.ID)
	if slot == nil {
		return
	}

	if slot.Team == model.TeamBlue {
		slot.Team = model.TeamRed
	} else {
		slot.Team = model.TeamBlue
	}

	s.broadcastMatchState(m, false)
}

func (s *Server) handleMatchInvite(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchInvite(body)
	if err != nil {
		slog.Warn("malformed match invite", "user", u.Name, "err", err)
		return
	}

	s.mu.RLock()

	m := s.matchOf(u)
	if m == nil {
		s.mu.RUnlock()
		return
	}

	target := s.users.ByID(pkt.UserID)
	if target == nil {
		s.mu.RUnlock()
		slog.Warn("tried to invite an offline user", "user", u.Name, "target_id", pkt.UserID)
		return
	}
	if target.IsBot() {
		s.mu.RUnlock()
		return
	}

	target.Enqueue(serverpackets.MatchInvite(packet.Message{
		Sender:    u.Name,
		Content:   "Join my multiplayer match: " + m.Embed(),
		Recipient: target.Name,
		SenderID:  u.ID,
	}))
	targetName := target.Name
	s.mu.RUnlock()

	s.updateActivity(ctx, u)
	slog.Info("invited user to match", "user", u.Name, "target", targetName)
}

func (s *Server) handleMatchChangePassword(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchSettings(body)
	if err != nil {
		slog.Warn("malformed password change", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.matchOf(u)
	if m == nil {
		return
	}
	if m.HostID != u.ID {
		slog.Warn("tried to change match password as non-host", "user", u.Name)
		return
	}

	m.Password = pkt.Match.Password
	s.broadcastMatchState(m, true)
}

// handleTourneyMatchInfo answers a tourney client's state pull for one
// match; supporter-only, password masked.
func (s *Server) handleTourneyMatchInfo(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchID(body)
	if err != nil {
		slog.Warn("malformed tourney info request", "user", u.Name, "err", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !u.CanTourney() {
		return
	}
	m := s.matches.ByID(pkt.MatchID)
	if m == nil {
		return
	}

	u.Enqueue(serverpackets.UpdateMatch(m.WireState(), false))
}

// handleTourneyJoinChannel attaches an observer to a match chat without
// seating them.
func (s *Server) handleTourneyJoinChannel(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchID(body)
	if err != nil {
		slog.Warn("malformed tourney channel join", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !u.CanTourney() {
		return
	}
	m := s.matches.ByID(pkt.MatchID)
	if m == nil {
		return
	}
	if m.SlotOf(u.ID) != nil {
		return
	}

	if s.joinChannel(u, m.Chat) {
		m.TourneyClients[u.ID] = struct{}{}
	}
}

func (s *Server) handleTourneyLeaveChannel(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseMatchID(body)
	if err != nil {
		slog.Warn("malformed tourney channel part", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !u.CanTourney() {
		return
	}
	m := s.matches.ByID(pkt.MatchID)
	if m == nil {
		return
	}

	s.leaveChannel(u, m.Chat, false)
	delete(m.TourneyClients, u.ID)
}
