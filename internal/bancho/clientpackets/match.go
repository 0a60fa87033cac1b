package clientpackets

import (
	"fmt"

	"github.com/hikariosu/hikari/internal/packet"
)

// MatchSettings is OSU_CREATE_MATCH / OSU_MATCH_CHANGE_SETTINGS /
// OSU_MATCH_CHANGE_PASSWORD: the client ships a full match state and
// the server picks the fields the sender may change.
type MatchSettings struct {
	Match packet.MatchState
}

// ParseMatchSettings parses a MatchSettings payload.
func ParseMatchSettings(data []byte) (*MatchSettings, error) {
	m, err := packet.ReadMatchState(packet.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading match state: %w", err)
	}

	return &MatchSettings{Match: m}, nil
}

// JoinMatch is OSU_JOIN_MATCH.
type JoinMatch struct {
	MatchID  int32
	Password string
}

// ParseJoinMatch parses a JoinMatch payload.
func ParseJoinMatch(data []byte) (*JoinMatch, error) {
	r := packet.NewReader(data)

	id, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading match id: %w", err)
	}

	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return &JoinMatch{MatchID: id, Password: password}, nil
}

// MatchSlot is OSU_MATCH_CHANGE_SLOT / OSU_MATCH_LOCK /
// OSU_MATCH_TRANSFER_HOST, all addressing a slot index.
type MatchSlot struct {
	SlotID int32
}

// ParseMatchSlot parses a MatchSlot payload.
func ParseMatchSlot(data []byte) (*MatchSlot, error) {
	id, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading slot id: %w", err)
	}

	return &MatchSlot{SlotID: id}, nil
}

// MatchMods is OSU_MATCH_CHANGE_MODS.
type MatchMods struct {
	Mods int32
}

// ParseMatchMods parses a MatchMods payload.
func ParseMatchMods(data []byte) (*MatchMods, error) {
	mods, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading mods: %w", err)
	}

	return &MatchMods{Mods: mods}, nil
}

// MatchID is the tournament client's match addressing payload
// (OSU_TOURNAMENT_*_MATCH_CHANNEL and the info request).
type MatchID struct {
	MatchID int32
}

// ParseMatchID parses a MatchID payload.
func ParseMatchID(data []byte) (*MatchID, error) {
	id, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading match id: %w", err)
	}

	return &MatchID{MatchID: id}, nil
}

// MatchInvite is OSU_MATCH_INVITE.
type MatchInvite struct {
	UserID int32
}

// ParseMatchInvite parses a MatchInvite payload.
func ParseMatchInvite(data []byte) (*MatchInvite, error) {
	id, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading user id: %w", err)
	}

	return &MatchInvite{UserID: id}, nil
}
