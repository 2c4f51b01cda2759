// Package roster turns a published registration sheet into normalized
// member records.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When operators encounter errors, they can quote the error
// code to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Sheet Errors (SHEET001-SHEET099)
//
// Errors related to fetching and decoding the published sheet:
//
//	SHEET001 - Fetch failed: Could not reach the published sheet
//	           Action: Check the sheet URL and your network connection
//	           Patterns: "fetch roster sheet"
//
//	SHEET002 - Bad status: The published sheet returned an error response
//	           Action: Confirm the sheet is still published to the web
//	           Patterns: "unexpected status"
//
//	SHEET003 - Parse failed: The sheet response was not valid CSV
//	           Action: Re-publish the sheet in CSV format and try again
//	           Patterns: "parse roster sheet"
//
//	SHEET004 - Too large: The sheet response exceeded the size limit
//	           Action: Trim old rows from the sheet or raise the limit
//	           Patterns: "sheet too large"
//
// # Sync Errors (SYNC001-SYNC099)
//
// Errors related to the sync lifecycle:
//
//	SYNC001 - Already running: A sync is already in progress
//	          Action: Wait for the current sync to finish and try again
//	          Patterns: "sync already running"
//
//	SYNC002 - Cancelled: The sync stopped before it finished
//	          Action: Start a new sync when ready
//	          Patterns: "context canceled", "context deadline exceeded"
//
// # Roster Errors (ROSTER001-ROSTER099)
//
// Errors related to member lookups:
//
//	ROSTER001 - Not found: No member with that ID exists
//	            Action: Check the ID or run a sync to refresh the roster
//	            Patterns: "member not found"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code
// (e.g., SYNC002 matches both cancellation and deadline errors).
//
// # For Support Staff
//
// When an operator reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the operator
//  4. If ERR000, check application logs for the original technical error
package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyncRunning is returned by [Service.Sync] when another sync is
// already in progress. Callers should surface it as a retryable
// conflict rather than a failure.
var ErrSyncRunning = errors.New("sync already running")

// ErrMemberNotFound is returned by lookups for IDs absent from the
// current roster.
var ErrMemberNotFound = errors.New("member not found")

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
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the reference at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Sheet Errors (SHEET001-SHEET004)
	// These errors occur while fetching or decoding the published sheet.
	// "unexpected status" and "sheet too large" appear inside wrapped fetch
	// errors, so they must be listed before the generic fetch pattern.
	// =========================================================================
	{
		pattern: "unexpected status",
		msg: UserMessage{
			Message: "The published sheet returned an error response",
			Action:  "Confirm the sheet is still published to the web and the link is current",
			Code:    "SHEET002",
		},
	},
	{
		pattern: "sheet too large",
		msg: UserMessage{
			Message: "The sheet response exceeded the size limit",
			Action:  "Trim old rows from the sheet or raise the configured limit",
			Code:    "SHEET004",
		},
	},
	{
		pattern: "parse roster sheet",
		msg: UserMessage{
			Message: "The sheet response was not valid CSV",
			Action:  "Re-publish the sheet in CSV format and try again",
			Code:    "SHEET003",
		},
	},
	{
		pattern: "fetch roster sheet",
		msg: UserMessage{
			Message: "Could not reach the published sheet",
			Action:  "Check the sheet URL and your network connection",
			Code:    "SHEET001",
		},
	},

	// =========================================================================
	// Sync Errors (SYNC001-SYNC002)
	// These errors occur during the sync lifecycle.
	// =========================================================================
	{
		pattern: "sync already running",
		msg: UserMessage{
			Message: "A roster sync is already in progress",
			Action:  "Wait for the current sync to finish and try again",
			Code:    "SYNC001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The sync was cancelled before it finished",
			Action:  "Start a new sync when ready",
			Code:    "SYNC002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The sync timed out before it finished",
			Action:  "Check your connection and try again",
			Code:    "SYNC002",
		},
	},

	// =========================================================================
	// Roster Errors (ROSTER001)
	// These errors occur when looking up members.
	// =========================================================================
	{
		pattern: "member not found",
		msg: UserMessage{
			Message: "No member with that ID exists",
			Action:  "Check the ID or run a sync to refresh the roster",
			Code:    "ROSTER001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("fetch roster sheet: %w", netErr)
//	msg := MapError(err)
//	// msg.Code == "SHEET001"
//	// msg.Message == "Could not reach the published sheet"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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
//
// Example output: "Could not reach the published sheet (Code: SHEET001). Check the sheet URL and your network connection"
//
// This is the primary function for displaying errors to operators.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean
// message for display.
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

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. The returned UserError preserves the original
// technical error for logging via Unwrap(), while providing a clean user
// message via Error().
//
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
