package model

import "testing"

func TestSlotStatusOccupied(t *testing.T) {
	tests := []struct {
		status SlotStatus
		want   bool
	}{
		{SlotOpen, false},
		{SlotLocked, false},
		{SlotNotReady, true},
		{SlotReady, true},
		{SlotNoMap, true},
		{SlotPlaying, true},
		{SlotComplete, true},
		{SlotQuit, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.Occupied(); got != tt.want {
				t.Errorf("SlotStatus(%d).Occupied() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestSlotHasUserMask(t *testing.T) {
	// The mask is wire-exact: the match codec relies on it to decide which
	// slots carry a user id.
	if SlotHasUser != 124 {
		t.Errorf("SlotHasUser = %d, want 124", SlotHasUser)
	}
}

func TestTeamTypeTeamed(t *testing.T) {
	tests := []struct {
		teamType TeamType
		want     bool
	}{
		{TeamTypeHeadToHead, false},
		{TeamTypeTagCoop, false},
		{TeamTypeTeamVS, true},
		{TeamTypeTagTeamVS, true},
	}

	for _, tt := range tests {
		if got := tt.teamType.Teamed(); got != tt.want {
			t.Errorf("TeamType(%d).Teamed() = %v, want %v", tt.teamType, got, tt.want)
		}
	}
}
