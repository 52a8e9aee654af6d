package ledger

import (
	"fmt"

	"github.com/mmynk/settler/internal/models"
)

// Scope is the boundary over which balances are netted: one group, or the
// union of all groups a wallet belongs to.
type Scope struct {
	groupID string
	wallet  models.Wallet
}

// GroupScope nets balances within a single group.
func GroupScope(groupID string) Scope {
	return Scope{groupID: groupID}
}

// UserScope nets balances across every group the wallet belongs to.
func UserScope(wallet models.Wallet) Scope {
	return Scope{wallet: wallet}
}

// GroupID returns the group and true for a group scope.
func (s Scope) GroupID() (string, bool) {
	return s.groupID, s.groupID != ""
}

// Wallet returns the wallet and true for a user scope.
func (s Scope) Wallet() (models.Wallet, bool) {
	return s.wallet, s.wallet != ""
}

// String describes the scope for logs and error messages.
func (s Scope) String() string {
	if s.groupID != "" {
		return fmt.Sprintf("group:%s", s.groupID)
	}
	return fmt.Sprintf("user:%s", s.wallet)
}
