package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for fatal contract conditions.
var (
	ErrEntityNotFound    = errors.New("entity not found")
	ErrEntityNameMissing = errors.New("entity name missing from file name")
	ErrHeaderMismatch    = errors.New("header mismatch")
)

// FatalError aborts the check of one contract file. The issue that caused
// it is already part of the file's other issues.
type FatalError struct {
	Code  string
	Issue Issue
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Issue.IssueValue)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err aborted a contract check.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
