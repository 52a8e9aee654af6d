package models

import "strings"

// Wallet is a participant's wallet address in canonical (lower-case) form.
// It is the only identity the backend knows about.
type Wallet string

// NormalizeWallet converts an address to its canonical form: trimmed and
// lower-cased. All boundaries (API input, storage reads) normalize before
// comparing, so Wallet values inside the system are always canonical.
func NormalizeWallet(addr string) Wallet {
	return Wallet(strings.ToLower(strings.TrimSpace(addr)))
}

// String returns the address as a plain string.
func (w Wallet) String() string { return string(w) }
