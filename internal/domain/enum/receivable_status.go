package enum

// ReceivableStatus represents the stored status of a receivable.
//
// Only two values are ever persisted: a receivable is pending until it is
// settled, and settlement is one-way. "Atrasado" (overdue) is a derived
// label computed from the due date at read time and is deliberately NOT a
// stored status — see Receivable.DisplayStatus.
type ReceivableStatus string

const (
	ReceivableStatusPending ReceivableStatus = "Pendente"
	ReceivableStatusSettled ReceivableStatus = "Recebido"
)

// ReceivableStatusOverdue is the presentation-only label for pending
// receivables whose due date has passed. Never written to storage.
const ReceivableStatusOverdue = "Atrasado"

// IsValid checks if the status is a valid stored ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	return s == ReceivableStatusPending || s == ReceivableStatusSettled
}

func (s ReceivableStatus) String() string {
	return string(s)
}
