// Package sqlerr handles database driver errors.
//
// It normalizes pgx (Postgres) and go-sqlite3 errors into a single
// Error type so the rest of the service can reason about them without
// importing drivers, and converts them into API errors: missing rows
// become 404s, everything else a generic 500 whose cause is only logged.
package sqlerr

import (
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Code is a driver independent error category.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	UndefinedTable      Code = "undefined_table"
	ConnectionFailure   Code = "connection_failure"
	QueryCanceled       Code = "query_canceled"
)

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is the normalized driver error.
//
// DatabaseCode keeps the raw driver code (SQLSTATE for Postgres, the
// extended result code for SQLite) for log correlation.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (" + e.DatabaseCode + ")"
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "42P01":
		return UndefinedTable
	case "57014":
		return QueryCanceled
	}

	// Class 08: connection exceptions.
	if strings.HasPrefix(sqlState, "08") {
		return ConnectionFailure
	}

	return Other
}

// MapSeverity maps a Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch strings.ToUpper(severity) {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}

// mapSQLiteCode maps go-sqlite3 extended result codes onto a Code.
func mapSQLiteCode(src sqlite3.Error) Code {
	switch src.ExtendedCode {
	case sqlite3.ErrConstraintNotNull:
		return NotNullViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintCheck:
		return CheckViolation
	}

	switch src.Code {
	case sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
		return ConnectionFailure
	case sqlite3.ErrInterrupt:
		return QueryCanceled
	case sqlite3.ErrError:
		if strings.Contains(src.Error(), "no such table") {
			return UndefinedTable
		}
	}

	return Other
}
