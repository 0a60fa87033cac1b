package model

// Action is the client-reported activity shown in a user's status panel.
type Action uint8

const (
	ActionIdle Action = iota
	ActionAFK
	ActionPlaying
	ActionEditing
	ActionModding
	ActionMultiplayer
	ActionWatching
	ActionUnknown
	ActionTesting
	ActionSubmitting
	ActionPaused
	ActionLobby
	ActionMultiplaying
	ActionOsuDirect
)

// String returns human-readable action name
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "IDLE"
	case ActionAFK:
		return "AFK"
	case ActionPlaying:
		return "PLAYING"
	case ActionEditing:
		return "EDITING"
	case ActionModding:
		return "MODDING"
	case ActionMultiplayer:
		return "MULTIPLAYER"
	case ActionWatching:
		return "WATCHING"
	case ActionTesting:
		return "TESTING"
	case ActionSubmitting:
		return "SUBMITTING"
	case ActionPaused:
		return "PAUSED"
	case ActionLobby:
		return "LOBBY"
	case ActionMultiplaying:
		return "MULTIPLAYING"
	case ActionOsuDirect:
		return "OSU_DIRECT"
	default:
		return "UNKNOWN"
	}
}
