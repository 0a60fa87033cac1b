package model

// Privileges is the server-side account privilege bitfield stored on the user
// document. It is never sent to the client directly; see ClientPrivileges.
type Privileges int32

const (
	// PrivRestricted marks a restricted account. Restricted sessions are
	// invisible to everyone else and may only run a small packet subset.
	PrivRestricted Privileges = 1 << 0
	// PrivVerified is granted on the first successful login.
	PrivVerified  Privileges = 1 << 1
	PrivSupporter Privileges = 1 << 2
	// PrivNominator may change beatmap ranked statuses.
	PrivNominator Privileges = 1 << 3
	PrivModerator Privileges = 1 << 4
	PrivAdmin     Privileges = 1 << 5
	PrivDeveloper Privileges = 1 << 6
	PrivOwner     Privileges = 1 << 7

	PrivStaff = PrivModerator | PrivAdmin | PrivDeveloper | PrivOwner

	// PrivMaster is the full grant for the instance owner account.
	PrivMaster = PrivVerified | PrivSupporter | PrivNominator | PrivStaff
)

// Has reports whether every bit of other is set.
func (p Privileges) Has(other Privileges) bool {
	return p&other == other
}

// HasAny reports whether at least one bit of other is set.
func (p Privileges) HasAny(other Privileges) bool {
	return p&other != 0
}

// ClientPrivileges is the bancho-visible privilege byte.
type ClientPrivileges uint8

const (
	ClientPrivPlayer    ClientPrivileges = 1 << 0
	ClientPrivModerator ClientPrivileges = 1 << 1
	ClientPrivSupporter ClientPrivileges = 1 << 2
	ClientPrivOwner     ClientPrivileges = 1 << 3
	ClientPrivDeveloper ClientPrivileges = 1 << 4
)

// Client projects server privileges onto the bancho byte the client renders
// (name color, supporter heart, bat tools).
func (p Privileges) Client() ClientPrivileges {
	var c ClientPrivileges
	if !p.HasAny(PrivRestricted) {
		c |= ClientPrivPlayer
	}
	if p.HasAny(PrivSupporter) {
		c |= ClientPrivSupporter
	}
	if p.HasAny(PrivModerator | PrivAdmin) {
		c |= ClientPrivModerator
	}
	if p.HasAny(PrivDeveloper) {
		c |= ClientPrivDeveloper
	}
	if p.HasAny(PrivOwner) {
		c |= ClientPrivOwner
	}
	return c
}
