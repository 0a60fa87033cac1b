package serverpackets

import (
	"github.com/hikariosu/hikari/internal/packet"
)

// HostSpectatorJoined builds CHO_SPECTATOR_JOINED, telling the host a
// spectator attached.
func HostSpectatorJoined(userID int32) []byte {
	w := packet.Get(packet.ChoSpectatorJoined)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}

// HostSpectatorLeft builds CHO_SPECTATOR_LEFT, telling the host a
// spectator detached.
func HostSpectatorLeft(userID int32) []byte {
	w := packet.Get(packet.ChoSpectatorLeft)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}

// FellowSpectatorJoined builds CHO_FELLOW_SPECTATOR_JOINED for the
// other spectators of the same host.
func FellowSpectatorJoined(userID int32) []byte {
	w := packet.Get(packet.ChoFellowSpectatorJoined)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}

// FellowSpectatorLeft builds CHO_FELLOW_SPECTATOR_LEFT.
func FellowSpectatorLeft(userID int32) []byte {
	w := packet.Get(packet.ChoFellowSpectatorLeft)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}

// SpectateFrames builds CHO_SPECTATE_FRAMES, re-framing a replay frame
// bundle exactly as the playing client uploaded it.
func SpectateFrames(frames []byte) []byte {
	w := packet.Get(packet.ChoSpectateFrames)
	defer w.Put()

	w.WriteBytes(frames)
	return w.Finish()
}

// CantSpectate builds CHO_SPECTATOR_CANT_SPECTATE, flagging a spectator
// who lacks the beatmap.
func CantSpectate(userID int32) []byte {
	w := packet.Get(packet.ChoSpectatorCantSpectate)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}
