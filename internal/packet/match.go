package packet

import (
	"fmt"

	"github.com/hikariosu/hikari/internal/model"
)

// MatchSlots is the fixed slot count of every multiplayer match.
const MatchSlots = 16

// MatchState is the compound wire form of a multiplayer match, used by
// CHO_NEW_MATCH / CHO_UPDATE_MATCH / CHO_MATCH_* and by the inbound
// create/change-settings packets. SlotIDs is sparse: only indices whose
// status is occupied carry a meaningful user id.
type MatchState struct {
	ID           uint16
	InProgress   bool
	Mods         model.Mods
	Name         string
	Password     string
	MapName      string
	MapID        int32
	MapMD5       string
	SlotStatuses [MatchSlots]model.SlotStatus
	SlotTeams    [MatchSlots]model.Team
	SlotIDs      [MatchSlots]int32
	HostID       int32
	Mode         model.Mode
	WinCondition model.WinCondition
	TeamType     model.TeamType
	Freemod      bool
	SlotMods     [MatchSlots]model.Mods
	Seed         int32
}

// ReadMatchState decodes the inbound match structure.
func ReadMatchState(r *Reader) (MatchState, error) {
	var m MatchState

	id, err := r.ReadInt16()
	if err != nil {
		return m, fmt.Errorf("match id: %w", err)
	}
	m.ID = uint16(id)

	if m.InProgress, err = r.ReadBool(); err != nil {
		return m, fmt.Errorf("match in_progress: %w", err)
	}
	// One unused byte ("powerplay") between in_progress and mods.
	if _, err = r.ReadByte(); err != nil {
		return m, fmt.Errorf("match pad: %w", err)
	}

	mods, err := r.ReadInt32()
	if err != nil {
		return m, fmt.Errorf("match mods: %w", err)
	}
	m.Mods = model.Mods(mods)

	if m.Name, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match name: %w", err)
	}
	if m.Password, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match password: %w", err)
	}
	if m.MapName, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match map name: %w", err)
	}
	if m.MapID, err = r.ReadInt32(); err != nil {
		return m, fmt.Errorf("match map id: %w", err)
	}
	if m.MapMD5, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match map md5: %w", err)
	}

	for i := 0; i < MatchSlots; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return m, fmt.Errorf("slot %d status: %w", i, err)
		}
		m.SlotStatuses[i] = model.SlotStatus(b)
	}
	for i := 0; i < MatchSlots; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return m, fmt.Errorf("slot %d team: %w", i, err)
		}
		m.SlotTeams[i] = model.Team(b)
	}
	for i := 0; i < MatchSlots; i++ {
		if !m.SlotStatuses[i].Occupied() {
			continue
		}
		if m.SlotIDs[i], err = r.ReadInt32(); err != nil {
			return m, fmt.Errorf("slot %d user id: %w", i, err)
		}
	}

	if m.HostID, err = r.ReadInt32(); err != nil {
		return m, fmt.Errorf("match host id: %w", err)
	}

	mode, err := r.ReadByte()
	if err != nil {
		return m, fmt.Errorf("match mode: %w", err)
	}
	m.Mode = model.Mode(mode)

	winCondition, err := r.ReadByte()
	if err != nil {
		return m, fmt.Errorf("match win condition: %w", err)
	}
	m.WinCondition = model.WinCondition(winCondition)

	teamType, err := r.ReadByte()
	if err != nil {
		return m, fmt.Errorf("match team type: %w", err)
	}
	m.TeamType = model.TeamType(teamType)

	if m.Freemod, err = r.ReadBool(); err != nil {
		return m, fmt.Errorf("match freemod: %w", err)
	}
	if m.Freemod {
		for i := 0; i < MatchSlots; i++ {
			mods, err := r.ReadInt32()
			if err != nil {
				return m, fmt.Errorf("slot %d mods: %w", i, err)
			}
			m.SlotMods[i] = model.Mods(mods)
		}
	}

	if m.Seed, err = r.ReadInt32(); err != nil {
		return m, fmt.Errorf("match seed: %w", err)
	}
	return m, nil
}

// WriteTo encodes the match into w. When sendPassword is false a non-empty
// password is masked as a zero-length string (0x0b 0x00) so lobby browsers
// learn that one exists without seeing it.
func (m MatchState) WriteTo(w *Writer, sendPassword bool) {
	w.WriteUint16(m.ID)
	w.WriteBool(m.InProgress)
	w.WriteByte(0)
	w.WriteInt32(int32(m.Mods))
	w.WriteString(m.Name)

	switch {
	case m.Password == "":
		w.WriteByte(0x00)
	case sendPassword:
		w.WriteString(m.Password)
	default:
		w.WriteByte(0x0b)
		w.WriteByte(0x00)
	}

	w.WriteString(m.MapName)
	w.WriteInt32(m.MapID)
	w.WriteString(m.MapMD5)

	for _, s := range m.SlotStatuses {
		w.WriteByte(byte(s))
	}
	for _, t := range m.SlotTeams {
		w.WriteByte(byte(t))
	}
	for i, s := range m.SlotStatuses {
		if s.Occupied() {
			w.WriteInt32(m.SlotIDs[i])
		}
	}

	w.WriteInt32(m.HostID)
	w.WriteByte(byte(m.Mode))
	w.WriteByte(byte(m.WinCondition))
	w.WriteByte(byte(m.TeamType))
	w.WriteBool(m.Freemod)
	if m.Freemod {
		for _, mods := range m.SlotMods {
			w.WriteInt32(int32(mods))
		}
	}
	w.WriteInt32(m.Seed)
}
