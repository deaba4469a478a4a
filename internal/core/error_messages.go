package core

// # Error Codes Reference
//
// User-facing error messages with codes for support reference. A user who
// sees an error can quote the code to support staff for faster diagnosis.
//
// # Entity Errors (ENT001-ENT099)
//
//	ENT001 - Entity not found: the file name prefix is not a registered entity
//	         Action: Register the entity or fix the file name prefix
//	         Patterns: "entity not found"
//
//	ENT002 - Entity name missing: the file name has no ENTITY_ prefix
//	         Action: Rename the file to ENTITY_NAME_CONTRACTNAME_SPRINT<n>.xlsx
//	         Patterns: "entity name missing"
//
// # Header Errors (HDR001-HDR099)
//
//	HDR001 - Header mismatch: catalog columns are missing from the contract
//	         Action: Compare the header row with the template columns
//	         Patterns: "header mismatch"
//
// # Catalog Errors (CAT001-CAT099)
//
//	CAT001 - Catalog key missing: the rule catalog is incomplete
//	         Action: Add the listed keys to the catalog file
//	         Patterns: "catalog key missing"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Contract unreadable: the contract file could not be opened or parsed
//	          Action: Check the path and that the file is a valid xlsx or csv
//	          Patterns: "read contract"
//
//	FILE002 - Sheet not found: the workbook has no contract sheet
//	          Action: Keep the contract on the "Metadata Template" sheet
//	          Patterns: "sheet not found"
//
//	FILE003 - No header: the sheet ends before the header row
//	          Action: Keep the two description rows above the header
//	          Patterns: "header row not found"
//
// # Sample Errors (SMP001-SMP099)
//
//	SMP001 - Sample unreadable: a sample file could not be read
//	         Action: Check the file permissions and encoding
//	         Patterns: "sample file unreadable"
//
// # Report Errors (RPT001-RPT099)
//
//	RPT001 - Report not found: no stored report has the requested name
//	         Action: Validate the contract first or check the report name
//	         Patterns: "report not found"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - System busy: too many validations in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent validations"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: the entity directory database is unreachable
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
//	DB002 - Timeout: the validation ran out of time
//	        Action: Try again later or validate fewer files at once
//	        Patterns: "context deadline exceeded", "timeout"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come before general ones.
// A *FatalError always maps by its Code.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// Entity
	{
		pattern: "entity not found",
		msg: UserMessage{
			Message: "Entity is not registered in the entity directory",
			Action:  "Register the entity or fix the file name prefix",
			Code:    "ENT001",
		},
	},
	{
		pattern: "entity name missing",
		msg: UserMessage{
			Message: "Contract file name has no entity prefix",
			Action:  "Rename the file to ENTITY_NAME_CONTRACTNAME_SPRINT<n>.xlsx",
			Code:    "ENT002",
		},
	},

	// Header and catalog
	{
		pattern: "header mismatch",
		msg: UserMessage{
			Message: "Contract header is missing template columns",
			Action:  "Compare the header row with the template columns",
			Code:    "HDR001",
		},
	},
	{
		pattern: "catalog key missing",
		msg: UserMessage{
			Message: "Rule catalog is incomplete",
			Action:  "Add the listed keys to the catalog file",
			Code:    "CAT001",
		},
	},

	// Files. Specific causes come before the generic read failure they are
	// wrapped in.
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "Contract sheet not found in workbook",
			Action:  "Keep the contract on the \"Metadata Template\" sheet",
			Code:    "FILE002",
		},
	},
	{
		pattern: "header row not found",
		msg: UserMessage{
			Message: "Contract has no header row",
			Action:  "Keep the two description rows above the header",
			Code:    "FILE003",
		},
	},
	{
		pattern: "read contract",
		msg: UserMessage{
			Message: "Contract file could not be read",
			Action:  "Check the path and that the file is a valid xlsx or csv",
			Code:    "FILE001",
		},
	},
	{
		pattern: "sample file unreadable",
		msg: UserMessage{
			Message: "Sample file could not be read",
			Action:  "Check the file permissions and encoding",
			Code:    "SMP001",
		},
	},

	// Stored reports
	{
		pattern: "report not found",
		msg: UserMessage{
			Message: "Report not found",
			Action:  "Validate the contract first or check the report name",
			Code:    "RPT001",
		},
	},

	// Capacity
	{
		pattern: "too many concurrent validations",
		msg: UserMessage{
			Message: "System is busy validating other contracts",
			Action:  "Please wait a moment and try again",
			Code:    "VAL001",
		},
	},

	// Database and time
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the entity directory",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Validation timed out",
			Action:  "Try again later or validate fewer files at once",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Validation timed out",
			Action:  "Try again later or validate fewer files at once",
			Code:    "DB002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A *FatalError maps by its code; anything else is matched against the
// known patterns, falling back to ERR000.
//
// Example:
//
//	err := fmt.Errorf("read contract %s: %w", path, table.ErrSheetNotFound)
//	msg := MapError(err)
//	// msg.Code == "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var fe *FatalError
	if errors.As(err, &fe) {
		for _, ep := range errorPatterns {
			if ep.msg.Code == fe.Code {
				return ep.msg
			}
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback. Use it to decide between the mapped message and a
// generic one.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err
// is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
