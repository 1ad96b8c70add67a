package convo

import "fmt"

type ErrorCode string

const (
	// ErrorStoreUnavailable: conversation state could not be read or
	// written; the turn did not complete and no reply should imply it did.
	ErrorStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrorLedgerUnavailable: the order could not be recorded at
	// confirmation; the conversation stays at StageConfirm for a retry.
	ErrorLedgerUnavailable ErrorCode = "LEDGER_UNAVAILABLE"
)

type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("convo: %s", e.Code)
	}
	return fmt.Sprintf("convo: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}
