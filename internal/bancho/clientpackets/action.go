// Package clientpackets parses the payloads osu! clients send to the
// server. Parsers take the frame payload, header already stripped.
package clientpackets

import (
	"fmt"

	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
)

// ChangeAction is OSU_CHANGE_ACTION, the client's status update.
//
// Packet structure:
//   - action    (u8)
//   - info text (string)
//   - map md5   (string)
//   - mods      (u32)
//   - mode      (u8)
//   - map id    (i32)
type ChangeAction struct {
	Action   model.Action
	InfoText string
	MapMD5   string
	Mods     model.Mods
	Mode     model.Mode
	MapID    int32
}

// ParseChangeAction parses a ChangeAction payload.
func ParseChangeAction(data []byte) (*ChangeAction, error) {
	r := packet.NewReader(data)

	action, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading action: %w", err)
	}

	infoText, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading info text: %w", err)
	}

	mapMD5, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading map md5: %w", err)
	}

	mods, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading mods: %w", err)
	}

	mode, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading mode: %w", err)
	}

	mapID, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading map id: %w", err)
	}

	return &ChangeAction{
		Action:   model.Action(action),
		InfoText: infoText,
		MapMD5:   mapMD5,
		Mods:     model.Mods(mods),
		Mode:     model.Mode(mode),
		MapID:    mapID,
	}, nil
}
