package model

// RankedStatus is a beatmap's ranking state in the client's understanding.
type RankedStatus int8

const (
	StatusNotSubmitted RankedStatus = iota - 1
	StatusPending
	StatusUpdateAvailable
	StatusRanked
	StatusApproved
	StatusQualified
	StatusLoved
)

// RankedStatusFromAPI converts the osu! API "approved" field to the client's
// ranked status scale.
func RankedStatusFromAPI(approved int) RankedStatus {
	switch approved {
	case 1:
		return StatusRanked
	case 2:
		return StatusApproved
	case 3:
		return StatusQualified
	case 4:
		return StatusLoved
	default:
		return StatusPending
	}
}

// RankedStatusFromName parses the command-facing status names.
func RankedStatusFromName(name string) (RankedStatus, bool) {
	switch name {
	case "rank":
		return StatusRanked, true
	case "love":
		return StatusLoved, true
	case "unrank", "unlove":
		return StatusPending, true
	default:
		return StatusPending, false
	}
}
