package core

// error_messages.go maps technical errors to user-facing messages with
// support codes.
//
// Codes by category:
//
//	CAT001 - Recipe sheet too narrow: fewer than 7 columns
//	         Action: Check that the recipe sheet index points at the recipe table
//	CAT002 - No recipe sections: no row carries the *** marker
//	         Action: Mark each recipe's first row with *** in column A
//	CAT003 - Unnamed section: a *** row has no recipe name in column B
//	         Action: Fill in the recipe name next to the marker
//
//	SAL001 - Missing sales column: the item or units-sold column is absent
//	         Action: Rename the sales columns to the configured names
//
//	PRM001 - Empty promotions sheet
//	         Action: Upload the promotions workbook
//
//	FILE001 - File too large
//	FILE002 - Unsupported format (only .xlsx, .xlsm and .csv)
//	FILE003 - Sheet not found at the configured index
//	FILE004 - No file provided
//	FILE005 - Empty or unreadable file
//	FILE006 - Malformed upload form
//
//	RUN001 - Invalid threshold (must be 0-100)
//	RUN002 - System busy: too many concurrent runs
//	RUN003 - Request cancelled or timed out
//
//	ERR000 - Unknown error
//
// Sentinel errors are matched with errors.Is first; plain-text patterns
// (case-insensitive substring) cover errors raised outside this package,
// such as the sheet loader's.

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

// errorSentinel maps a sentinel error to its user message.
type errorSentinel struct {
	err error
	msg UserMessage
}

var errorSentinels = []errorSentinel{
	{ErrTableTooNarrow, UserMessage{
		Message: "The recipe sheet does not have enough columns",
		Action:  "Check that the recipe sheet index points at the recipe table",
		Code:    "CAT001",
	}},
	{ErrNoSections, UserMessage{
		Message: "No recipes were found in the recipe sheet",
		Action:  "Mark the first row of each recipe with *** in column A",
		Code:    "CAT002",
	}},
	{ErrUnnamedSection, UserMessage{
		Message: "A recipe marker row has no recipe name",
		Action:  "Fill in the recipe name in column B next to the *** marker",
		Code:    "CAT003",
	}},
	{ErrMissingColumn, UserMessage{
		Message: "The sales sheet is missing a required column",
		Action:  "Check that the item name and units sold column headers match exactly",
		Code:    "SAL001",
	}},
	{ErrEmptyTable, UserMessage{
		Message: "The promotions sheet is empty",
		Action:  "Upload the promotions workbook with one promotion per row",
		Code:    "PRM001",
	}},
	{ErrInvalidThreshold, UserMessage{
		Message: "The similarity threshold is out of range",
		Action:  "Use a whole number between 0 and 100",
		Code:    "RUN001",
	}},
	{ErrTooManyRuns, UserMessage{
		Message: "Too many reports are being calculated",
		Action:  "Please wait a moment and try again",
		Code:    "RUN002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are checked in order; specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Remove unused sheets or split the workbook",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Remove unused sheets or split the workbook",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "File format is not supported",
			Action:  "Upload an .xlsx, .xlsm or .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported workbook file format",
		msg: UserMessage{
			Message: "File format is not supported",
			Action:  "Legacy .xls and password-protected workbooks cannot be read; save as .xlsx",
			Code:    "FILE002",
		},
	},
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "The workbook does not have the expected sheet",
			Action:  "Check the sheet index settings or the uploaded workbook",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "A required file was not selected",
			Action:  "Select the recipes, sales and promotions files",
			Code:    "FILE004",
		},
	},
	{
		pattern: "invalid form",
		msg: UserMessage{
			Message: "The upload form could not be read",
			Action:  "Reload the page and submit the files again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a workbook with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "not a valid zip",
		msg: UserMessage{
			Message: "The workbook could not be read",
			Action:  "Open the file in Excel and save it again as .xlsx",
			Code:    "FILE005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again with smaller workbooks",
			Code:    "RUN003",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.err) {
			return es.msg
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

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
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

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
