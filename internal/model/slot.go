package model

// SlotStatus is the lifecycle state of one multiplayer slot. The values are
// wire-exact; SlotHasUser is the mask of every occupied state.
type SlotStatus uint8

const (
	SlotOpen     SlotStatus = 1 << 0
	SlotLocked   SlotStatus = 1 << 1
	SlotNotReady SlotStatus = 1 << 2
	SlotReady    SlotStatus = 1 << 3
	SlotNoMap    SlotStatus = 1 << 4
	SlotPlaying  SlotStatus = 1 << 5
	SlotComplete SlotStatus = 1 << 6
	SlotQuit     SlotStatus = 1 << 7

	SlotHasUser = SlotNotReady | SlotReady | SlotNoMap | SlotPlaying | SlotComplete
)

// Occupied reports whether the status describes a slot holding a user.
func (s SlotStatus) Occupied() bool {
	return s&SlotHasUser != 0
}

// String returns human-readable slot status name
func (s SlotStatus) String() string {
	switch s {
	case SlotOpen:
		return "OPEN"
	case SlotLocked:
		return "LOCKED"
	case SlotNotReady:
		return "NOT_READY"
	case SlotReady:
		return "READY"
	case SlotNoMap:
		return "NO_MAP"
	case SlotPlaying:
		return "PLAYING"
	case SlotComplete:
		return "COMPLETE"
	case SlotQuit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}

// Team is a slot's team assignment.
type Team uint8

const (
	TeamNeutral Team = iota
	TeamBlue
	TeamRed
)

// TeamType is the match team arrangement.
type TeamType uint8

const (
	TeamTypeHeadToHead TeamType = iota
	TeamTypeTagCoop
	TeamTypeTeamVS
	TeamTypeTagTeamVS
)

// Teamed reports whether the arrangement plays in red/blue teams.
func (t TeamType) Teamed() bool {
	return t == TeamTypeTeamVS || t == TeamTypeTagTeamVS
}

// WinCondition decides how a multiplayer round is scored.
type WinCondition uint8

const (
	WinConditionScore WinCondition = iota
	WinConditionAccuracy
	WinConditionCombo
	WinConditionScoreV2
)
