package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deppfellow/online-quiz/internal/model/question"
	"github.com/deppfellow/online-quiz/internal/sqlerr"
)

// SQLiteQuestionRepository stores questions in a go-sqlite3 database.
type SQLiteQuestionRepository struct {
	db *sql.DB
}

func NewSQLiteQuestionRepository(db *sql.DB) *SQLiteQuestionRepository {
	return &SQLiteQuestionRepository{db: db}
}

func (r *SQLiteQuestionRepository) CreateQuestion(ctx context.Context, payload *question.CreateQuestionRequest) (int64, error) {
	choices, err := encodeChoices(payload.Choices)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (question, choices, answer) VALUES (?, ?, ?)`,
		payload.Question, choices, payload.Answer)
	if err != nil {
		return 0, fmt.Errorf("failed to execute create question query: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new question id: %w", err)
	}

	return id, nil
}

func (r *SQLiteQuestionRepository) UpdateQuestion(ctx context.Context, id int64, payload *question.UpdateQuestionRequest) error {
	stmt, args, err := buildUpdate(id, payload, questionPlaceholder)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update question query for id=%d: %w", id, err)
	}

	return requireAffected(res)
}

func (r *SQLiteQuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to execute delete question query for id=%d: %w", id, err)
	}

	return requireAffected(res)
}

func (r *SQLiteQuestionRepository) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	var row questionRow

	err := r.db.QueryRowContext(ctx,
		`SELECT id, question, choices, answer FROM questions WHERE id = ?`, id,
	).Scan(&row.ID, &row.Question, &row.Choices, &row.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sqlerr.NoRows(questionsTable)
		}
		return nil, fmt.Errorf("failed to execute get question query for id=%d: %w", id, err)
	}

	return row.toQuestion()
}

func (r *SQLiteQuestionRepository) ListQuestions(ctx context.Context) ([]question.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, question, choices, answer FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list questions query: %w", err)
	}
	defer rows.Close()

	var stored []questionRow
	for rows.Next() {
		var row questionRow
		if err := rows.Scan(&row.ID, &row.Question, &row.Choices, &row.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		stored = append(stored, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question rows: %w", err)
	}

	return toQuestions(stored)
}

func (r *SQLiteQuestionRepository) GetAnswer(ctx context.Context, id int64) (string, error) {
	var answer string

	err := r.db.QueryRowContext(ctx, `SELECT answer FROM questions WHERE id = ?`, id).Scan(&answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sqlerr.NoRows(questionsTable)
		}
		return "", fmt.Errorf("failed to execute get answer query for id=%d: %w", id, err)
	}

	return answer, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return sqlerr.NoRows(questionsTable)
	}
	return nil
}
