package domain

// Permission is a bitmask of independent user capabilities.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermSend
	PermEdit
	PermDelete
	PermBan
	PermKick
	PermCommands
	PermDeleteOthers
)

// PermNone is the fully silenced state. Setting a user's permissions to
// PermNone is the sanctioned way to ban without deleting the account: the
// user still resolves through the store but fails every capability check.
const PermNone Permission = 0

// DefaultPermissions is granted to every newly signed-up user.
const DefaultPermissions = PermRead | PermSend | PermCommands

// Has reports whether the capability is present in the set.
func (p Permission) Has(capability Permission) bool {
	return p&capability != 0
}
