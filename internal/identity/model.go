package identity

import "time"

// Identity is the wallet owner record. The backend owns the authoritative
// copy; the device holds an eventually-consistent cache of the fields it
// needs between launches.
type Identity struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	ReferralCode string
	Balance      int64 // minor currency units
	PINHash      []byte
	HasPIN       bool
	CreatedAt    time.Time
}

// FullName joins the name parts for display.
func (i Identity) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	default:
		return i.FirstName + " " + i.LastName
	}
}
