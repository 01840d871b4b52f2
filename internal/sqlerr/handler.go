package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/online-quiz/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TablePrefix marks the table name inside a wrapped "no rows" error:
//
//	fmt.Errorf("%s%s: %w", sqlerr.TablePrefix, "questions", pgx.ErrNoRows)
//
// HandleError reads it back to name the missing entity.
const TablePrefix = "table:"

// NoRows wraps sql.ErrNoRows with the table it was raised for. Repositories
// return it when a statement matched no row.
func NoRows(table string) error {
	return fmt.Errorf("%s%s: %w", TablePrefix, table, sql.ErrNoRows)
}

// ErrCode reports the mapped Code for a given error.
//
// If err (or anything it wraps) is a driver error, its Code is returned,
// otherwise Other.
func ErrCode(err error) Code {
	if sqlErr, ok := Classify(err); ok {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertSQLiteError converts a go-sqlite3 error into an Error.
//
// SQLite does not report schema metadata, so only the code and message are set.
func ConvertSQLiteError(src sqlite3.Error) *Error {
	return &Error{
		Code:         mapSQLiteCode(src),
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", int(src.ExtendedCode)),
		Message:      src.Error(),
		driverErr:    src,
	}
}

// Classify finds a driver error in err's chain and normalizes it.
func Classify(err error) (*Error, bool) {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr, true
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr), true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr), true
	}

	return nil, false
}

// AppCode builds a machine-friendly code for logs: <DOMAIN>_<ACTION>,
// e.g. questions + NotNullViolation => QUESTION_REQUIRED.
func (e *Error) AppCode() string {
	return generateErrorCode(e.TableName, e.Code)
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// DOMAIN comes from the table name (uppercased, trailing 'S' removed),
// ACTION from the violation type.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	case UndefinedTable:
		action = "TABLE_MISSING"
	case ConnectionFailure:
		action = "UNAVAILABLE"
	case QueryCanceled:
		action = "CANCELED"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. A column ending in "_id" names the entity ("question_id" -> "Question").
//  2. Otherwise the table name, singularized if it ends with "s".
//  3. Otherwise "Record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "Record"
}

// humanizeText converts snake_case into Title Case ("quiz_question" -> "Quiz Question").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// tableFromError extracts the table name written by NoRows.
func tableFromError(err error) string {
	errMsg := err.Error()
	idx := strings.Index(errMsg, TablePrefix)
	if idx < 0 {
		return ""
	}

	rest := errMsg[idx+len(TablePrefix):]
	table, _, found := strings.Cut(rest, ":")
	if !found {
		return ""
	}
	return table
}

// HandleError converts a repository error into an API error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - pgx.ErrNoRows / sql.ErrNoRows: 404 "<Entity> not found."
//   - anything else (driver errors, canceled contexts, decode failures):
//     a 500 carrying the generic message, with err kept as the cause
//
// message is the operation's generic failure text, e.g. "Error adding question.".
func HandleError(err error, message string) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		entityName := getEntityName(tableFromError(err), "")
		return errs.NewNotFoundError(fmt.Sprintf("%s not found.", entityName), true, nil)
	}

	return errs.NewStoreError(message, err)
}
