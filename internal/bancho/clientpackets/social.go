package clientpackets

import (
	"fmt"

	"github.com/hikariosu/hikari/internal/packet"
)

// StartSpectating is OSU_START_SPECTATING.
type StartSpectating struct {
	TargetID int32
}

// ParseStartSpectating parses a StartSpectating payload.
func ParseStartSpectating(data []byte) (*StartSpectating, error) {
	id, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading target id: %w", err)
	}

	return &StartSpectating{TargetID: id}, nil
}

// Friend is OSU_FRIEND_ADD / OSU_FRIEND_REMOVE.
type Friend struct {
	TargetID int32
}

// ParseFriend parses a Friend payload.
func ParseFriend(data []byte) (*Friend, error) {
	id, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading target id: %w", err)
	}

	return &Friend{TargetID: id}, nil
}

// UserIDList is OSU_USER_STATS_REQUEST / OSU_USER_PRESENCE_REQUEST,
// an i32 list of user ids the client wants refreshed.
type UserIDList struct {
	UserIDs []int32
}

// ParseUserIDList parses a UserIDList payload.
func ParseUserIDList(data []byte) (*UserIDList, error) {
	ids, err := packet.NewReader(data).ReadIntList()
	if err != nil {
		return nil, fmt.Errorf("reading user ids: %w", err)
	}

	return &UserIDList{UserIDs: ids}, nil
}

// ToggleDMs is OSU_TOGGLE_BLOCK_NON_FRIEND_DMS. Value 1 restricts
// private messages to friends.
type ToggleDMs struct {
	Value int32
}

// ParseToggleDMs parses a ToggleDMs payload.
func ParseToggleDMs(data []byte) (*ToggleDMs, error) {
	value, err := packet.NewReader(data).ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading value: %w", err)
	}

	return &ToggleDMs{Value: value}, nil
}
