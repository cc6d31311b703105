// Package core provides the simulated sensor readings and the pure logic around them.
//
// # Error Codes Reference
//
// This file defines operator-friendly error messages with codes for support reference.
// When a run fails, the CLI prints the mapped message and code; the technical
// error is always logged alongside it.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A reading with this key already exists
//	        Patterns: "duplicate key", "unique constraint"
//
//	DB003 - Foreign key: A configured identifier is missing from a reference table
//	        Action: Fix SENSOR_ID/CONTROLLER_ID/LINE_ID/FACTORY_ID or seed the reference tables
//	        Patterns: "foreign key constraint", "violates foreign key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB008 - Authentication: Database rejected the credentials
//	        Patterns: "password authentication failed"
//
//	DB009 - Missing relation: Schema, table or database does not exist
//	        Patterns: "does not exist", "no such table"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Permission denied writing or reading the spreadsheet
//	FILE002 - Spreadsheet not found
//	FILE003 - Spreadsheet is missing an expected column
//	FILE004 - File is not a valid .xlsx workbook
//
// # Simulation Errors (SIM001-SIM099)
//
//	SIM001 - Integrity mismatch: A reading no longer matches its integrity hash
//	SIM002 - Reference mismatch: Configured identifiers are unknown and the policy is "fail"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The run was interrupted
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns come first.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides operator-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Simulation Errors (SIM001-SIM002)
	// =========================================================================
	{
		pattern: "integrity mismatch",
		msg: UserMessage{
			Message: "A reading no longer matches its integrity hash",
			Action:  "Regenerate the spreadsheet instead of editing it by hand",
			Code:    "SIM001",
		},
	},
	{
		pattern: "reference mismatch",
		msg: UserMessage{
			Message: "Configured identifiers are not present in the reference tables",
			Action:  "Fix the equipment identifiers or set REFERENCE_POLICY=warn",
			Code:    "SIM002",
		},
	},

	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A reading with this key already exists",
			Action:  "Check the readings table for a previous run",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A reading with this key already exists",
			Action:  "Check the readings table for a previous run",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "A configured identifier is missing from a reference table",
			Action:  "Fix SENSOR_ID, CONTROLLER_ID, LINE_ID or FACTORY_ID, or seed the reference tables",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "A configured identifier is missing from a reference table",
			Action:  "Fix SENSOR_ID, CONTROLLER_ID, LINE_ID or FACTORY_ID, or seed the reference tables",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB009)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DB_HOST and DB_PORT, and that the server is running",
			Code:    "DB004",
		},
	},
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check DB_USER and DB_PASSWORD",
			Code:    "DB008",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The readings table does not exist",
			Action:  "Check DB_SCHEMA and DB_TABLE",
			Code:    "DB009",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE004)
	// =========================================================================
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Permission denied accessing the spreadsheet",
			Action:  "Check EXPORT_DIR permissions",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Spreadsheet not found",
			Action:  "Check the path, or run generate first",
			Code:    "FILE002",
		},
	},
	{
		pattern: "missing column",
		msg: UserMessage{
			Message: "Spreadsheet is missing an expected column",
			Action:  "Only load workbooks produced by sensorsim",
			Code:    "FILE003",
		},
	},
	{
		pattern: "not a valid zip",
		msg: UserMessage{
			Message: "File is not a valid .xlsx workbook",
			Action:  "Only load workbooks produced by sensorsim",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Missing relations come after the file patterns: "does not exist" would
	// otherwise shadow more specific messages.
	// =========================================================================
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "Schema, table or database does not exist",
			Action:  "Check DB_NAME, DB_SCHEMA and DB_TABLE",
			Code:    "DB009",
		},
	},

	// =========================================================================
	// Run Errors (RUN001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was interrupted",
			Action:  "Nothing was committed; start a new run when ready",
			Code:    "RUN001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error into an operator-friendly message.
// Returns an empty UserMessage for nil errors.
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

// FormatUserError returns a single line suitable for the console:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
