package reconcile

import "fmt"

// TransactionRollbackError wraps a persistence failure inside the atomic
// finalize unit. The whole unit was rolled back; no partial writes exist.
type TransactionRollbackError struct {
	TransactionID string
	Err           error
}

func (e *TransactionRollbackError) Error() string {
	return fmt.Sprintf("finalize rolled back for transaction %s: %v", e.TransactionID, e.Err)
}

func (e *TransactionRollbackError) Unwrap() error { return e.Err }
