package model

// Status is what a user is currently doing, as reported by the client on
// every OSU_CHANGE_ACTION.
type Status struct {
	Action   Action
	InfoText string
	MapMD5   string
	Mods     Mods
	Mode     Mode
	MapID    int32
}

// DefaultStatus is the state every fresh session starts in.
func DefaultStatus() Status {
	return Status{Action: ActionIdle}
}
