package bancho

import (
	"context"
	"log/slog"

	"github.com/hikariosu/hikari/internal/metrics"
	"github.com/hikariosu/hikari/internal/packet"
)

// HandleRequest runs every frame of one poll request through the packet
// switch and returns the session's pending bytes as the response body.
// Unknown packet ids are skipped so one bad frame cannot starve the rest
// of the request.
func (s *Server) HandleRequest(ctx context.Context, u *User, body []byte) []byte {
	s.mu.RLock()
	restricted := u.Restricted()
	s.mu.RUnlock()

	frames := packet.IterFrames(body)
	for {
		f, ok := frames.Next()
		if !ok {
			break
		}

		if restricted && !restrictedAllowed(f.ID) {
			continue
		}
		if !s.dispatch(ctx, u, f.ID, f.Payload) {
			continue
		}
		metrics.PacketsHandled.WithLabelValues(f.ID.String()).Inc()

		if f.ID != packet.OsuPing {
			slog.Debug("packet handled", "packet", f.ID.String(), "user", u.Name)
		}
	}
	if left := frames.Leftover(); left > 0 {
		slog.Warn("request body ended mid-frame", "user", u.Name, "bytes", left)
	}

	s.updateActivity(ctx, u)
	return u.Dequeue()
}

// restrictedAllowed reports whether a restricted session may still run
// the given packet. Everything else a restricted client sends is dropped.
func restrictedAllowed(id packet.ID) bool {
	switch id {
	case packet.OsuChangeAction, packet.OsuLogout, packet.OsuRequestStatusUpdate, packet.OsuPing:
		return true
	}
	return false
}

// dispatch routes one decoded frame to its handler. Returns false when
// the packet id has no handler.
func (s *Server) dispatch(ctx context.Context, u *User, id packet.ID, body []byte) bool {
	switch id {
	case packet.OsuChangeAction:
		s.handleChangeAction(ctx, u, body)
	case packet.OsuSendPublicMessage:
		s.handlePublicMessage(ctx, u, body)
	case packet.OsuLogout:
		s.handleLogout(ctx, u, body)
	case packet.OsuRequestStatusUpdate:
		s.handleRequestStatusUpdate(ctx, u, body)
	case packet.OsuPing:
		s.handlePing(ctx, u, body)
	case packet.OsuStartSpectating:
		s.handleStartSpectating(ctx, u, body)
	case packet.OsuStopSpectating:
		s.handleStopSpectating(ctx, u, body)
	case packet.OsuSpectateFrames:
		s.handleSpectateFrames(ctx, u, body)
	case packet.OsuCantSpectate:
		s.handleCantSpectate(ctx, u, body)
	case packet.OsuSendPrivateMessage:
		s.handlePrivateMessage(ctx, u, body)
	case packet.OsuPartLobby:
		s.handlePartLobby(ctx, u, body)
	case packet.OsuJoinLobby:
		s.handleJoinLobby(ctx, u, body)
	case packet.OsuCreateMatch:
		s.handleCreateMatch(ctx, u, body)
	case packet.OsuJoinMatch:
		s.handleJoinMatch(ctx, u, body)
	case packet.OsuPartMatch:
		s.handlePartMatch(ctx, u, body)
	case packet.OsuMatchChangeSlot:
		s.handleMatchChangeSlot(ctx, u, body)
	case packet.OsuMatchReady:
		s.handleMatchReady(ctx, u, body)
	case packet.OsuMatchLock:
		s.handleMatchLock(ctx, u, body)
	case packet.OsuMatchChangeSettings:
		s.handleMatchChangeSettings(ctx, u, body)
	case packet.OsuMatchStart:
		s.handleMatchStart(ctx, u, body)
	case packet.OsuMatchScoreUpdate:
		s.handleMatchScoreUpdate(ctx, u, body)
	case packet.OsuMatchComplete:
		s.handleMatchComplete(ctx, u, body)
	case packet.OsuMatchChangeMods:
		s.handleMatchChangeMods(ctx, u, body)
	case packet.OsuMatchLoadComplete:
		s.handleMatchLoadComplete(ctx, u, body)
	case packet.OsuMatchNoBeatmap:
		s.handleMatchNoBeatmap(ctx, u, body)
	case packet.OsuMatchNotReady:
		s.handleMatchNotReady(ctx, u, body)
	case packet.OsuMatchFailed:
		s.handleMatchFailed(ctx, u, body)
	case packet.OsuMatchHasBeatmap:
		s.handleMatchHasBeatmap(ctx, u, body)
	case packet.OsuMatchSkipRequest:
		s.handleMatchSkipRequest(ctx, u, body)
	case packet.OsuChannelJoin:
		s.handleChannelJoin(ctx, u, body)
	case packet.OsuMatchTransferHost:
		s.handleMatchTransferHost(ctx, u, body)
	case packet.OsuFriendAdd:
		s.handleFriendAdd(ctx, u, body)
	case packet.OsuFriendRemove:
		s.handleFriendRemove(ctx, u, body)
	case packet.OsuMatchChangeTeam:
		s.handleMatchChangeTeam(ctx, u, body)
	case packet.OsuChannelPart:
		s.handleChannelPart(ctx, u, body)
	case packet.OsuUserStatsRequest:
		s.handleUserStatsRequest(ctx, u, body)
	case packet.OsuMatchInvite:
		s.handleMatchInvite(ctx, u, body)
	case packet.OsuMatchChangePassword:
		s.handleMatchChangePassword(ctx, u, body)
	case packet.OsuTournamentMatchInfoRequest:
		s.handleTourneyMatchInfo(ctx, u, body)
	case packet.OsuUserPresenceRequest:
		s.handleUserPresenceRequest(ctx, u, body)
	case packet.OsuUserPresenceRequestAll:
		s.handleUserPresenceRequestAll(ctx, u, body)
	case packet.OsuToggleBlockNonFriendDMs:
		s.handleToggleDMs(ctx, u, body)
	case packet.OsuTournamentJoinMatchChannel:
		s.handleTourneyJoinChannel(ctx, u, body)
	case packet.OsuTournamentLeaveMatchChannel:
		s.handleTourneyLeaveChannel(ctx, u, body)
	default:
		return false
	}
	return true
}
