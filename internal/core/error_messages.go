// Package core provides the business logic for build property tables.
//
// # Error Codes Reference
//
// Technical errors are mapped to user-friendly messages with codes that can
// be quoted to support staff.
//
// # View Errors (TBL001-TBL099)
//
//	TBL001 - View not found: The requested table view is not configured
//	         Action: Pick one of the views listed on the index page
//	         Sentinel: ErrViewNotFound
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid argument: A build, job or property name is missing
//	         Action: Provide non-empty job, build and property names
//	         Sentinels: table.ErrInvalidArgument, store.ErrInvalidProperty
//
//	VAL002 - Already materialized: The table no longer accepts raw data
//	         Action: Build a new table for the new data
//	         Sentinel: table.ErrMaterialized
//
//	VAL003 - Invalid pattern: A view pattern is not a valid regular expression
//	         Action: Fix the pattern in the view configuration
//	         Patterns: "error parsing regexp"
//
//	VAL004 - Invalid body: The request body could not be decoded
//	         Action: Send a JSON object of property names to values
//	         Sentinel: ErrInvalidBody
//
// # Database Errors (DB001-DB099)
//
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled (context.Canceled)
//	REQ002 - Request timeout (context.DeadlineExceeded)
//
// # Default Error (ERR000)
//
//	ERR000 - An unexpected error occurred
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/buildprops/internal/store"
	"github.com/JonMunkholm/buildprops/internal/table"
)

// UserMessage is an error explained for end users.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorSentinel maps a wrapped sentinel error to a message.
type errorSentinel struct {
	target error
	msg    UserMessage
}

// errorPattern maps an error substring (lowercase) to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgViewNotFound = UserMessage{
		Message: "The requested table view is not configured",
		Action:  "Pick one of the views listed on the index page",
		Code:    "TBL001",
	}
	msgInvalidArgument = UserMessage{
		Message: "A job, build or property name is missing",
		Action:  "Provide non-empty job, build and property names",
		Code:    "VAL001",
	}
)

// Sentinels are checked before patterns, in order.
var errorSentinels = []errorSentinel{
	{target: ErrViewNotFound, msg: msgViewNotFound},
	{target: table.ErrInvalidArgument, msg: msgInvalidArgument},
	{target: store.ErrInvalidProperty, msg: msgInvalidArgument},
	{
		target: table.ErrMaterialized,
		msg: UserMessage{
			Message: "The table no longer accepts raw data",
			Action:  "Build a new table for the new data",
			Code:    "VAL002",
		},
	},
	{
		target: ErrInvalidBody,
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a JSON object of property names to values",
			Code:    "VAL004",
		},
	},
	{
		target: ErrTooManyBuilds,
		msg: UserMessage{
			Message: "The server is busy building other tables",
			Action:  "Wait a moment and reload the page",
			Code:    "TBL002",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ002",
		},
	},
}

var errorPatterns = []errorPattern{
	{
		pattern: "error parsing regexp",
		msg: UserMessage{
			Message: "A view pattern is not a valid regular expression",
			Action:  "Fix the pattern in the view configuration",
			Code:    "VAL003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
