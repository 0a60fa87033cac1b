package bancho

import (
	"context"
	"log/slog"

	"github.com/hikariosu/hikari/internal/bancho/clientpackets"
	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/packet"
)

// handleStartSpectating attaches the user to a host's spectator pool.
// Re-spectating the same host only replays the join notifications;
// switching hosts detaches from the old one first.
func (s *Server) handleStartSpectating(ctx context.Context, u *User, body []byte) {
	pkt, err := clientpackets.ParseStartSpectating(body)
	if err != nil {
		slog.Warn("malformed start spectating", "user", u.Name, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	host := s.users.ByID(pkt.TargetID)
	if host == nil {
		slog.Warn("tried to spectate an offline user", "user", u.Name, "target_id", pkt.TargetID)
		return
	}

	if u.Spectating != 0 {
		if u.Spectating == host.ID {
			if !u.Stealth {
				host.Enqueue(serverpackets.HostSpectatorJoined(u.ID))

				fellowJoined := serverpackets.FellowSpectatorJoined(u.ID)
				for _, specID := range host.Spectators {
					if specID != u.ID {
						u.Enqueue(fellowJoined)
					}
				}
			}
			return
		}

		if prev := s.users.ByID(u.Spectating); prev != nil {
			s.removeSpectator(prev, u)
		}
	}

	s.addSpectator(host, u)
}

func (s *Server) handleStopSpectating(ctx context.Context, u *User, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Spectating == 0 {
		slog.Warn("tried to stop spectating while not spectating", "user", u.Name)
		return
	}

	host := s.users.ByID(u.Spectating)
	if host == nil {
		u.Spectating = 0
		return
	}

	s.removeSpectator(host, u)
}

// handleSpectateFrames rebroadcasts a replay frame bundle untouched to
// every spectator of the sender.
func (s *Server) handleSpectateFrames(ctx context.Context, u *User, body []byte) {
	frames := packet.NewReader(body).ReadRemaining()

	s.mu.RLock()
	defer s.mu.RUnlock()

	data := serverpackets.SpectateFrames(frames)
	for _, specID := range u.Spectators {
		if spec := s.users.ByID(specID); spec != nil {
			spec.Enqueue(data)
		}
	}
}

// handleCantSpectate tells the host and every fellow spectator that the
// sender lacks the current map.
func (s *Server) handleCantSpectate(ctx context.Context, u *User, body []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u.Spectating == 0 {
		slog.Warn("sent cant-spectate while not spectating", "user", u.Name)
		return
	}
	host := s.users.ByID(u.Spectating)
	if host == nil {
		return
	}

	if u.Stealth {
		return
	}

	data := serverpackets.CantSpectate(u.ID)
	host.Enqueue(data)
	for _, specID := range host.Spectators {
		if spec := s.users.ByID(specID); spec != nil {
			spec.Enqueue(data)
		}
	}
}
