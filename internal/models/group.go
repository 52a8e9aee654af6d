package models

// Group represents a set of wallets that split expenses together.
// A group scopes which splits are netted against each other.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Creator is the wallet that created the group.
	// Invariant: the creator is always a member.
	Creator Wallet

	// Members is the list of member wallets, canonical form.
	Members []Wallet

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the wallet is a member of the group.
func (g *Group) HasMember(w Wallet) bool {
	for _, m := range g.Members {
		if m == w {
			return true
		}
	}
	return false
}
