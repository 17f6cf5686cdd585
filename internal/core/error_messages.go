package core

// # Error Codes Reference
//
// User-facing messages with codes staff can quote when reporting a problem.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Not found: The data file could not be found
//	         Action: Check the configured file path
//	SRC002 - Parse error: The data file could not be read
//	         Action: Check the delimiter, encoding, and file format
//	SRC003 - Schema error: Required columns are missing
//	         Action: Make sure the header row lists every required column
//	SRC004 - Auth error: The spreadsheet credentials are missing or invalid
//	         Action: Check the service account configuration
//	SRC005 - Empty: The spreadsheet has no rows
//	         Action: Add data to the sheet or check the sheet name
//	SRC006 - Remote error: The spreadsheet service could not be reached
//	         Action: Check sharing permissions and the spreadsheet ID, then try again
//
// # Search Errors (FLT001, SRCH001-SRCH002)
//
//	FLT001  - Column missing: The data has no column the search expects
//	SRCH001 - Empty query: Nothing was typed in the search box
//	SRCH002 - Query too long: matched by pattern on "query too long"
//
// # Request Errors (UPL004-UPL005, RATE001)
//
// Matched by pattern on the error text:
//
//	UPL004  - "context canceled"
//	UPL005  - "context deadline exceeded"
//	RATE001 - "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.

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

var loadMessages = map[LoadErrorKind]UserMessage{
	KindNotFound: {
		Message: "The data file could not be found",
		Action:  "Check the configured file path",
		Code:    "SRC001",
	},
	KindParse: {
		Message: "The data file could not be read",
		Action:  "Check the delimiter, encoding, and file format",
		Code:    "SRC002",
	},
	KindSchema: {
		Message: "Required columns are missing from the data",
		Action:  "Make sure the header row lists every required column",
		Code:    "SRC003",
	},
	KindAuth: {
		Message: "The spreadsheet credentials are missing or invalid",
		Action:  "Check the service account configuration",
		Code:    "SRC004",
	},
	KindEmpty: {
		Message: "The spreadsheet has no rows",
		Action:  "Add data to the sheet or check the sheet name",
		Code:    "SRC005",
	},
	KindRemote: {
		Message: "The spreadsheet service could not be reached",
		Action:  "Check sharing permissions and the spreadsheet ID, then try again",
		Code:    "SRC006",
	},
}

var columnMissingMessage = UserMessage{
	Message: "The data has no column the search expects",
	Action:  "Check that the source matches the configured layout",
	Code:    "FLT001",
}

var emptyQueryMessage = UserMessage{
	Message: "No search term was given",
	Action:  "Type a tax ID, customer name, invoice number, or carrier",
	Code:    "SRCH001",
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that carry no type, matched case-insensitively
// with strings.Contains. The first match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "query too long",
		msg: UserMessage{
			Message: "The search term is too long",
			Action:  "Search by a shorter name, tax ID, or invoice number",
			Code:    "SRCH002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again in a few moments",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
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
// Typed load and filter errors are matched first, then the text patterns,
// then the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var le *LoadError
	if errors.As(err, &le) {
		if msg, ok := loadMessages[le.Kind]; ok {
			return msg
		}
	}
	if errors.Is(err, ErrColumnMissing) {
		return columnMissingMessage
	}
	if errors.Is(err, ErrEmptyQuery) {
		return emptyQueryMessage
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

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
