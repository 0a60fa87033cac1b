package model

// Mode is a play mode. Values 0-3 are the vanilla client modes; 4-6 are the
// server-side relax variants, which exist only as separate stat tracks and
// collapse back to vanilla on the wire.
type Mode uint8

const (
	ModeStandard Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
	ModeRelaxStandard
	ModeRelaxTaiko
	ModeRelaxCatch
)

// StatModes enumerates every mode a user carries stats for.
var StatModes = [...]Mode{
	ModeStandard,
	ModeTaiko,
	ModeCatch,
	ModeMania,
	ModeRelaxStandard,
	ModeRelaxTaiko,
	ModeRelaxCatch,
}

// AsVanilla maps a relax mode to its vanilla counterpart. The client only
// understands modes 0-3, so every outbound packet goes through this.
func (m Mode) AsVanilla() Mode {
	if m >= ModeRelaxStandard {
		return m - ModeRelaxStandard
	}
	return m
}

// WithRelax returns the relax track for a vanilla mode when rx is set.
// Mania has no relax track.
func (m Mode) WithRelax(rx bool) Mode {
	if rx && m < ModeMania {
		return m + ModeRelaxStandard
	}
	return m
}

// String returns human-readable mode name
func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "osu!"
	case ModeTaiko:
		return "osu!taiko"
	case ModeCatch:
		return "osu!catch"
	case ModeMania:
		return "osu!mania"
	case ModeRelaxStandard:
		return "osu! (rx)"
	case ModeRelaxTaiko:
		return "osu!taiko (rx)"
	case ModeRelaxCatch:
		return "osu!catch (rx)"
	default:
		return "unknown"
	}
}
