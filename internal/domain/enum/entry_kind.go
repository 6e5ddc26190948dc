package enum

// EntryKind classifies a ledger entry within a cash session.
// Amounts are always stored non-negative; the kind alone determines the
// direction an entry contributes to the expected balance.
type EntryKind string

const (
	EntryKindOpening    EntryKind = "opening"
	EntryKindSale       EntryKind = "sale"
	EntryKindWithdrawal EntryKind = "withdrawal" // sangria: cash taken out of the register
	EntryKindSupplement EntryKind = "supplement" // suprimento: cash added outside of sales
	EntryKindClosing    EntryKind = "closing"
)

// IsValid checks if the kind is a valid EntryKind
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindOpening, EntryKindSale, EntryKindWithdrawal, EntryKindSupplement, EntryKindClosing:
		return true
	}
	return false
}

// IsMovement reports whether the kind can be recorded against an open
// session after opening. Opening and closing entries are written only by
// the open/close transitions themselves.
func (k EntryKind) IsMovement() bool {
	return k == EntryKindSale || k == EntryKindWithdrawal || k == EntryKindSupplement
}

// Direction returns +1 for kinds that add to the expected balance, -1 for
// kinds that subtract from it, and 0 for the closing marker.
func (k EntryKind) Direction() int64 {
	switch k {
	case EntryKindOpening, EntryKindSale, EntryKindSupplement:
		return 1
	case EntryKindWithdrawal:
		return -1
	}
	return 0
}

func (k EntryKind) String() string {
	return string(k)
}
