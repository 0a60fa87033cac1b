package bancho

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
	"github.com/hikariosu/hikari/internal/pubsub"
)

// RegisterPubsubs subscribes the server's topic handlers. The web frontend
// and the score server publish these deltas; sessions they touch may just
// as well be offline, which every handler tolerates.
func (s *Server) RegisterPubsubs(bus *pubsub.Bus) {
	bus.Handle("user-status", s.onUserStatus)
	bus.Handle("user-activity", s.onUserActivity)
	bus.Handle("user-stats", s.onUserStats)
	bus.Handle("user-privileges", s.onUserPrivileges)
	bus.Handle("send-public-message", s.onSendPublicMessage)
	bus.Handle("send-private-message", s.onSendPrivateMessage)
}

type statusPayload struct {
	Action   model.Action `json:"action"`
	InfoText string       `json:"info_text"`
	MapMD5   string       `json:"map_md5"`
	Mods     model.Mods   `json:"mods"`
	Mode     model.Mode   `json:"mode"`
	MapID    int32        `json:"map_id"`
}

func (s *Server) onUserStatus(ctx context.Context, payload []byte) {
	var msg struct {
		ID     int32         `json:"id"`
		Status statusPayload `json:"status"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Error("decoding user-status payload", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users.ByID(msg.ID)
	if u == nil {
		return
	}

	u.Status = model.Status{
		Action:   msg.Status.Action,
		InfoText: msg.Status.InfoText,
		MapMD5:   msg.Status.MapMD5,
		Mods:     msg.Status.Mods,
		Mode:     msg.Status.Mode,
		MapID:    msg.Status.MapID,
	}
	if !u.Restricted() {
		s.users.Broadcast(u.StatsPacket())
	}

	slog.Info("applied status update from the bus", "user", u.Name)
}

func (s *Server) onUserActivity(ctx context.Context, payload []byte) {
	var msg struct {
		ID       int32 `json:"id"`
		Activity int64 `json:"activity"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Error("decoding user-activity payload", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.users.ByID(msg.ID); u != nil {
		u.LatestActivity = msg.Activity
	}
}

func (s *Server) onUserStats(ctx context.Context, payload []byte) {
	var msg struct {
		ID   int32      `json:"id"`
		Mode model.Mode `json:"mode"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Error("decoding user-stats payload", "err", err)
		return
	}

	s.mu.RLock()
	u := s.users.ByID(msg.ID)
	if u == nil {
		s.mu.RUnlock()
		return
	}
	country := u.Geolocation.Country.Acronym
	s.mu.RUnlock()

	stats, err := s.fetchStats(ctx, msg.ID, country, msg.Mode)
	if err != nil {
		slog.Error("refetching stats from the bus", "user_id", msg.ID, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u = s.users.ByID(msg.ID)
	if u == nil {
		return
	}

	u.Stats[msg.Mode] = stats
	if !u.Restricted() {
		s.users.Broadcast(u.StatsPacket())
	}
}

func (s *Server) onUserPrivileges(ctx context.Context, payload []byte) {
	var msg struct {
		ID         int32 `json:"id"`
		Privileges int32 `json:"privileges"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Error("decoding user-privileges payload", "err", err)
		return
	}
	privileges := model.Privileges(msg.Privileges)

	s.mu.Lock()
	u := s.users.ByID(msg.ID)
	if u == nil {
		s.mu.Unlock()
		return
	}

	wasRestricted := u.Restricted()
	u.Privileges = privileges
	country := u.Geolocation.Country.Acronym
	s.mu.Unlock()

	slog.Info("applied privileges from the bus", "user", u.Name, "privileges", msg.Privileges)

	switch {
	case privileges.HasAny(model.PrivRestricted) && !wasRestricted:
		s.applyRestriction(ctx, u, country)
	case !privileges.HasAny(model.PrivRestricted) && wasRestricted:
		s.applyUnrestriction(ctx, u, country)
	}
}

// applyRestriction pulls a freshly restricted session off every
// leaderboard and disconnects it, so the client reconnects into the
// restricted view of the server.
func (s *Server) applyRestriction(ctx context.Context, u *User, country string) {
	for _, mode := range model.StatModes {
		if err := s.leaderboard.RemoveUser(ctx, u.ID, mode, country); err != nil {
			slog.Error("removing restricted user from leaderboard", "user", u.Name, "mode", mode, "err", err)
		}
	}

	s.mu.Lock()
	for _, st := range u.Stats {
		st.GlobalRank = 0
		st.CountryRank = 0
	}
	s.logout(u)
	s.mu.Unlock()
}

// applyUnrestriction scores the session back onto every leaderboard,
// recomputes its ranks and disconnects it for a clean reconnect.
func (s *Server) applyUnrestriction(ctx context.Context, u *User, country string) {
	s.mu.RLock()
	pp := make(map[model.Mode]int32, len(u.Stats))
	for mode, st := range u.Stats {
		pp[mode] = st.PP
	}
	s.mu.RUnlock()

	globalRanks := make(map[model.Mode]int32, len(model.StatModes))
	countryRanks := make(map[model.Mode]int32, len(model.StatModes))

	for _, mode := range model.StatModes {
		if err := s.leaderboard.AddUser(ctx, u.ID, mode, country, pp[mode]); err != nil {
			slog.Error("restoring user to leaderboard", "user", u.Name, "mode", mode, "err", err)
			continue
		}

		global, err := s.leaderboard.GlobalRank(ctx, u.ID, mode)
		if err != nil {
			slog.Error("ranking unrestricted user", "user", u.Name, "mode", mode, "err", err)
			continue
		}
		countryRank, err := s.leaderboard.CountryRank(ctx, u.ID, mode, country)
		if err != nil {
			slog.Error("ranking unrestricted user", "user", u.Name, "mode", mode, "err", err)
			continue
		}

		globalRanks[mode] = global
		countryRanks[mode] = countryRank
	}

	s.mu.Lock()
	for mode, st := range u.Stats {
		st.GlobalRank = globalRanks[mode]
		st.CountryRank = countryRanks[mode]
	}
	s.logout(u)
	s.mu.Unlock()
}

func (s *Server) onSendPublicMessage(ctx context.Context, payload []byte) {
	var msg struct {
		Channel string `json:"channel"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Error("decoding send-public-message payload", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.channels.ByRealName(msg.Channel)
	if c == nil {
		slog.Warn("bus message for unknown channel", "channel", msg.Channel)
		return
	}

	c.Broadcast(serverpackets.SendMessage(packet.Message{
		Sender:    s.bot.Name,
		Content:   msg.Message,
		Recipient: c.Name,
		SenderID:  s.bot.ID,
	}))
}

func (s *Server) onSendPrivateMessage(ctx context.Context, payload []byte) {
	var msg struct {
		Recipient int32  `json:"recipient"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Error("decoding send-private-message payload", "err", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	target := s.users.ByID(msg.Recipient)
	if target == nil {
		return
	}

	s.botMessage(target, msg.Message)
}
