package serverpackets

import (
	"github.com/hikariosu/hikari/internal/packet"
)

// NewMatch builds CHO_NEW_MATCH, announcing a fresh lobby to the
// multiplayer browser.
func NewMatch(m packet.MatchState) []byte {
	w := packet.Get(packet.ChoNewMatch)
	defer w.Put()

	m.WriteTo(w, true)
	return w.Finish()
}

// UpdateMatch builds CHO_UPDATE_MATCH. sendPassword controls whether
// the password value itself goes out or only the fact that one is set.
func UpdateMatch(m packet.MatchState, sendPassword bool) []byte {
	w := packet.Get(packet.ChoUpdateMatch)
	defer w.Put()

	m.WriteTo(w, sendPassword)
	return w.Finish()
}

// MatchStart builds CHO_MATCH_START with the full match state.
func MatchStart(m packet.MatchState) []byte {
	w := packet.Get(packet.ChoMatchStart)
	defer w.Put()

	m.WriteTo(w, true)
	return w.Finish()
}

// MatchJoinSuccess builds CHO_MATCH_JOIN_SUCCESS with the full match
// state for the joining client.
func MatchJoinSuccess(m packet.MatchState) []byte {
	w := packet.Get(packet.ChoMatchJoinSuccess)
	defer w.Put()

	m.WriteTo(w, true)
	return w.Finish()
}

// MatchJoinFail builds CHO_MATCH_JOIN_FAIL.
func MatchJoinFail() []byte {
	w := packet.Get(packet.ChoMatchJoinFail)
	defer w.Put()

	return w.Finish()
}

// DisposeMatch builds CHO_DISPOSE_MATCH, removing a lobby from the
// multiplayer browser.
func DisposeMatch(matchID int32) []byte {
	w := packet.Get(packet.ChoDisposeMatch)
	defer w.Put()

	w.WriteInt32(matchID)
	return w.Finish()
}

// MatchTransferHost builds CHO_MATCH_TRANSFER_HOST, sent to the new
// host only.
func MatchTransferHost() []byte {
	w := packet.Get(packet.ChoMatchTransferHost)
	defer w.Put()

	return w.Finish()
}

// MatchComplete builds CHO_MATCH_COMPLETE.
func MatchComplete() []byte {
	w := packet.Get(packet.ChoMatchComplete)
	defer w.Put()

	return w.Finish()
}

// MatchAllPlayersLoaded builds CHO_MATCH_ALL_PLAYERS_LOADED.
func MatchAllPlayersLoaded() []byte {
	w := packet.Get(packet.ChoMatchAllPlayersLoaded)
	defer w.Put()

	return w.Finish()
}

// MatchPlayerFailed builds CHO_MATCH_PLAYER_FAILED for the given slot.
func MatchPlayerFailed(slotID int32) []byte {
	w := packet.Get(packet.ChoMatchPlayerFailed)
	defer w.Put()

	w.WriteInt32(slotID)
	return w.Finish()
}

// MatchPlayerSkipped builds CHO_MATCH_PLAYER_SKIPPED for the given
// user.
func MatchPlayerSkipped(userID int32) []byte {
	w := packet.Get(packet.ChoMatchPlayerSkipped)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}

// MatchSkip builds CHO_MATCH_SKIP, released once every player has asked
// to skip the intro.
func MatchSkip() []byte {
	w := packet.Get(packet.ChoMatchSkip)
	defer w.Put()

	return w.Finish()
}

// MatchInvite builds CHO_MATCH_INVITE wrapping an invite chat message.
func MatchInvite(m packet.Message) []byte {
	w := packet.Get(packet.ChoMatchInvite)
	defer w.Put()

	m.WriteTo(w)
	return w.Finish()
}

// MatchScoreFrame re-frames a raw in-play score payload as
// CHO_MATCH_SCORE_UPDATE, stamping the sender's slot id over the byte
// the client filled with its own. This runs for every score frame of
// every playing client, so the payload is passed through untouched.
func MatchScoreFrame(payload []byte, slotID byte) []byte {
	w := packet.Get(packet.ChoMatchScoreUpdate)
	defer w.Put()

	w.WriteBytes(payload)
	out := w.Finish()
	// The slot id lives at payload offset 4, after the i32 frame time.
	if len(out) > packet.HeaderLen+4 {
		out[packet.HeaderLen+4] = slotID
	}
	return out
}
