package wallet

import "time"

// Wallet is a user's single linked payment account record plus the ordered
// list of transaction ids it has participated in. History order is append
// order, most recent last.
type Wallet struct {
	ID            string
	OwnerID       string
	Provider      string
	AccountType   string
	AccountNumber string
	History       []string
	CreatedAt     time.Time
}

// Patch carries a partial wallet update. An empty field means no change,
// matching the pass-through convention of the PATCH endpoint.
type Patch struct {
	Provider      string
	AccountType   string
	AccountNumber string
}
