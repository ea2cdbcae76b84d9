package models

// Warning is a single entry in a user's ledger
type Warning struct {
	Reason string `bson:"reason" json:"reason"`
	Time   string `bson:"time" json:"time"`
}

// Ledger maps a user id to that user's warnings, oldest first.
// A missing key and an empty slice both mean "no warnings".
type Ledger map[string][]Warning

// Warnings returns the warnings recorded for userID
func (l Ledger) Warnings(userID string) []Warning {
	return l[userID]
}

// Count returns the number of warnings recorded for userID
func (l Ledger) Count(userID string) int {
	return len(l[userID])
}

// Add appends a warning to the end of userID's sequence
func (l Ledger) Add(userID string, w Warning) {
	l[userID] = append(l[userID], w)
}

// PopLatest removes and returns the most recent warning for userID.
// The key is dropped once the sequence is empty.
func (l Ledger) PopLatest(userID string) (Warning, bool) {
	warns := l[userID]
	if len(warns) == 0 {
		return Warning{}, false
	}

	last := warns[len(warns)-1]
	if len(warns) == 1 {
		delete(l, userID)
	} else {
		l[userID] = warns[:len(warns)-1]
	}
	return last, true
}

// Clone returns a deep copy of the ledger
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for userID, warns := range l {
		out[userID] = append([]Warning(nil), warns...)
	}
	return out
}
