// Package models defines the core domain records for Settler.
//
// # Models
//
//   - Group: a set of wallet-identified members who split expenses together
//   - Split: a shared expense with a payer and per-member shares
//   - Share: one member's assigned portion of a Split
//   - Payment: a recorded transfer toward a Share (partial or full)
//
// Participants carry no identity beyond their wallet address. Display names
// and ENS resolution belong to the clients; the backend never needs them.
//
// # Design Principles
//
// 1. **Wallet-first**: every participant reference is a lower-cased wallet
// address, normalized at the boundary so equality is plain string equality.
// 2. **Append-only payments**: a Payment is never edited or deleted; the
// outstanding amount of a Share is always derived as share minus payments.
// 3. **Avoid circular references**: records link by ID strings, not pointers.
// 4. **Derived state is not stored**: balances, net positions, and settlement
// plans are computed fresh per request by the ledger package.
package models
