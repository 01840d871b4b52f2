package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/online-quiz/internal/model/question"
	"github.com/deppfellow/online-quiz/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQuestionRepository stores questions in Postgres through a pgx pool.
type PostgresQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{pool: pool}
}

func (r *PostgresQuestionRepository) CreateQuestion(ctx context.Context, payload *question.CreateQuestionRequest) (int64, error) {
	choices, err := encodeChoices(payload.Choices)
	if err != nil {
		return 0, err
	}

	stmt := `
		INSERT INTO
			questions (question, choices, answer)
		VALUES
			(@question, @choices, @answer)
		RETURNING
			id
	`

	var id int64
	err = r.pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"question": payload.Question,
		"choices":  choices,
		"answer":   payload.Answer,
	}).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to execute create question query: %w", err)
	}

	return id, nil
}

func (r *PostgresQuestionRepository) UpdateQuestion(ctx context.Context, id int64, payload *question.UpdateQuestionRequest) error {
	stmt, args, err := buildUpdate(id, payload, dollarPlaceholder)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update question query for id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NoRows(questionsTable)
	}

	return nil
}

func (r *PostgresQuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	stmt := `
		DELETE FROM questions
		WHERE
			id = @id
	`

	tag, err := r.pool.Exec(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to execute delete question query for id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NoRows(questionsTable)
	}

	return nil
}

func (r *PostgresQuestionRepository) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	stmt := `
		SELECT
			id,
			question,
			choices,
			answer
		FROM
			questions
		WHERE
			id = @id
	`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get question query for id=%d: %w", id, err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[questionRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NoRows(questionsTable)
		}
		return nil, fmt.Errorf("failed to collect row from questions for id=%d: %w", id, err)
	}

	return row.toQuestion()
}

func (r *PostgresQuestionRepository) ListQuestions(ctx context.Context) ([]question.Question, error) {
	stmt := `
		SELECT
			id,
			question,
			choices,
			answer
		FROM
			questions
		ORDER BY
			id
	`

	rows, err := r.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list questions query: %w", err)
	}

	stored, err := pgx.CollectRows(rows, pgx.RowToStructByName[questionRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from questions: %w", err)
	}

	return toQuestions(stored)
}

func (r *PostgresQuestionRepository) GetAnswer(ctx context.Context, id int64) (string, error) {
	stmt := `
		SELECT
			answer
		FROM
			questions
		WHERE
			id = @id
	`

	var answer string
	err := r.pool.QueryRow(ctx, stmt, pgx.NamedArgs{"id": id}).Scan(&answer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", sqlerr.NoRows(questionsTable)
		}
		return "", fmt.Errorf("failed to execute get answer query for id=%d: %w", id, err)
	}

	return answer, nil
}

func toQuestions(stored []questionRow) ([]question.Question, error) {
	questions := make([]question.Question, 0, len(stored))
	for _, row := range stored {
		q, err := row.toQuestion()
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, nil
}
