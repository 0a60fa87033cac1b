package bancho

import (
	"fmt"

	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
)

// Slot is one of the 16 seats of a match.
type Slot struct {
	User    *User
	Status  model.SlotStatus
	Team    model.Team
	Mods    model.Mods
	Loaded  bool
	Skipped bool
}

// Empty reports whether no user occupies the slot.
func (s *Slot) Empty() bool {
	return s.User == nil
}

// CopyFrom moves another slot's occupancy here. Loading flags stay.
func (s *Slot) CopyFrom(other *Slot) {
	s.User = other.User
	s.Status = other.Status
	s.Team = other.Team
	s.Mods = other.Mods
}

// Reset clears the slot back to newStatus.
func (s *Slot) Reset(newStatus model.SlotStatus) {
	s.User = nil
	s.Status = newStatus
	s.Team = model.TeamNeutral
	s.Mods = model.ModNomod
	s.Loaded = false
	s.Skipped = false
}

// Match is one multiplayer lobby. The owning Server mutex guards all of it.
type Match struct {
	ID       int32
	Name     string
	Password string
	HostID   int32

	MapID     int32
	MapMD5    string
	MapName   string
	LastMapID int32

	Mods    model.Mods
	Mode    model.Mode
	Freemod bool

	TeamType     model.TeamType
	WinCondition model.WinCondition

	InProgress bool
	Seed       int32

	Chat  *Channel
	Slots [packet.MatchSlots]Slot

	// TourneyClients holds ids of observer sessions attached to this match;
	// they may never join a slot.
	TourneyClients map[int32]struct{}
}

// NewMatch returns a match with every slot open.
func NewMatch(id int32) *Match {
	m := &Match{ID: id, TourneyClients: make(map[int32]struct{})}
	for i := range m.Slots {
		m.Slots[i].Status = model.SlotOpen
	}
	return m
}

// URL is the osump:// join link the client understands.
func (m *Match) URL() string {
	return fmt.Sprintf("osump://%d/%s", m.ID, m.Password)
}

// Embed renders the clickable chat embed for the match.
func (m *Match) Embed() string {
	return fmt.Sprintf("[%s %s]", m.URL(), m.Name)
}

// MapEmbed renders the clickable chat embed for the current map.
func (m *Match) MapEmbed(serverDomain string) string {
	return fmt.Sprintf("[https://osu.%s/beatmaps/%d %s]", serverDomain, m.MapID, m.MapName)
}

// SlotOf returns the slot seating the user, nil when not seated.
func (m *Match) SlotOf(userID int32) *Slot {
	for i := range m.Slots {
		if m.Slots[i].User != nil && m.Slots[i].User.ID == userID {
			return &m.Slots[i]
		}
	}
	return nil
}

// SlotIDOf returns the seat index of the user, -1 when not seated.
func (m *Match) SlotIDOf(userID int32) int {
	for i := range m.Slots {
		if m.Slots[i].User != nil && m.Slots[i].User.ID == userID {
			return i
		}
	}
	return -1
}

// FreeSlot returns the lowest open seat index, -1 when the lobby is full.
func (m *Match) FreeSlot() int {
	for i := range m.Slots {
		if m.Slots[i].Status == model.SlotOpen {
			return i
		}
	}
	return -1
}

// HostSlot returns the slot seating the host, nil when the host is not
// seated (tourney-managed matches).
func (m *Match) HostSlot() *Slot {
	return m.SlotOf(m.HostID)
}

// IsEmpty reports whether no slot holds a user.
func (m *Match) IsEmpty() bool {
	for i := range m.Slots {
		if m.Slots[i].User != nil {
			return false
		}
	}
	return true
}

// UnreadySlots moves every slot in the expected state back to NOT_READY.
func (m *Match) UnreadySlots(expected model.SlotStatus) {
	for i := range m.Slots {
		if m.Slots[i].Status == expected {
			m.Slots[i].Status = model.SlotNotReady
		}
	}
}

// InitFromState seeds a fresh match from the creating client's structure.
// The registry-assigned id and the chat channel are left alone.
func (m *Match) InitFromState(in packet.MatchState) {
	m.Mods = in.Mods
	m.Name = in.Name
	m.Password = in.Password

	m.MapName = in.MapName
	m.MapID = in.MapID
	m.MapMD5 = in.MapMD5

	for i := range m.Slots {
		m.Slots[i].Status = in.SlotStatuses[i]
		m.Slots[i].Team = in.SlotTeams[i]
		m.Slots[i].Mods = in.SlotMods[i]
	}

	m.HostID = in.HostID
	m.Mode = in.Mode
	m.WinCondition = in.WinCondition
	m.TeamType = in.TeamType
	m.Freemod = in.Freemod
	m.Seed = in.Seed
}

// WireState snapshots the match into its wire structure.
func (m *Match) WireState() packet.MatchState {
	state := packet.MatchState{
		ID:           uint16(m.ID),
		InProgress:   m.InProgress,
		Mods:         m.Mods,
		Name:         m.Name,
		Password:     m.Password,
		MapName:      m.MapName,
		MapID:        m.MapID,
		MapMD5:       m.MapMD5,
		HostID:       m.HostID,
		Mode:         m.Mode,
		WinCondition: m.WinCondition,
		TeamType:     m.TeamType,
		Freemod:      m.Freemod,
		Seed:         m.Seed,
	}
	for i := range m.Slots {
		state.SlotStatuses[i] = m.Slots[i].Status
		state.SlotTeams[i] = m.Slots[i].Team
		state.SlotMods[i] = m.Slots[i].Mods
		if m.Slots[i].User != nil {
			state.SlotIDs[i] = m.Slots[i].User.ID
		}
	}
	return state
}

// Matches is the fixed-size lobby registry. Index == match id; free entries
// are nil. The owning Server mutex guards every method.
type Matches struct {
	byID [64]*Match
}

// Create allocates the lowest free id and registers a new match there.
// Returns nil when all 64 lobbies are taken.
func (ms *Matches) Create() *Match {
	for id := range ms.byID {
		if ms.byID[id] == nil {
			m := NewMatch(int32(id))
			ms.byID[id] = m
			return m
		}
	}
	return nil
}

// ByID returns the match with that id, nil when free or out of range.
func (ms *Matches) ByID(id int32) *Match {
	if id < 0 || int(id) >= len(ms.byID) {
		return nil
	}
	return ms.byID[id]
}

// Remove frees the match's id.
func (ms *Matches) Remove(m *Match) {
	if int(m.ID) < len(ms.byID) && ms.byID[m.ID] == m {
		ms.byID[m.ID] = nil
	}
}

// ForEach visits every live match.
func (ms *Matches) ForEach(fn func(*Match)) {
	for _, m := range ms.byID {
		if m != nil {
			fn(m)
		}
	}
}
