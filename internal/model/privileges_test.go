package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivilegesClient(t *testing.T) {
	tests := []struct {
		name string
		priv Privileges
		want ClientPrivileges
	}{
		{"plain player", PrivVerified, ClientPrivPlayer},
		{"restricted loses player bit", PrivVerified | PrivRestricted, 0},
		{"supporter", PrivVerified | PrivSupporter, ClientPrivPlayer | ClientPrivSupporter},
		{"moderator", PrivVerified | PrivModerator, ClientPrivPlayer | ClientPrivModerator},
		{"admin maps to moderator", PrivVerified | PrivAdmin, ClientPrivPlayer | ClientPrivModerator},
		{
			"master",
			PrivMaster,
			ClientPrivPlayer | ClientPrivSupporter | ClientPrivModerator | ClientPrivDeveloper | ClientPrivOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priv.Client())
		})
	}
}

func TestPrivilegesHas(t *testing.T) {
	p := PrivVerified | PrivModerator

	assert.True(t, p.Has(PrivVerified))
	assert.True(t, p.Has(PrivVerified|PrivModerator))
	assert.False(t, p.Has(PrivVerified|PrivAdmin))
	assert.True(t, p.HasAny(PrivStaff))
	assert.False(t, p.HasAny(PrivRestricted))
}

func TestModeRoundTrip(t *testing.T) {
	for _, m := range StatModes {
		vn := m.AsVanilla()
		assert.LessOrEqual(t, vn, ModeMania, "vanilla mode out of client range")
		if m >= ModeRelaxStandard {
			assert.Equal(t, m, vn.WithRelax(true))
		}
	}

	// Mania has no relax track.
	assert.Equal(t, ModeMania, ModeMania.WithRelax(true))
}
