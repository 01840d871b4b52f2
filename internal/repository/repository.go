// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Every operation is a single parameterized statement.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deppfellow/online-quiz/internal/model/question"
)

// questionsTable is also the entity name reported in "not found" errors.
const questionsTable = "questions"

// QuestionRepository is the question store.
//
// Missing rows are reported as sqlerr.NoRows("questions"); anything else is a
// driver error wrapped with the operation that failed.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, payload *question.CreateQuestionRequest) (int64, error)
	UpdateQuestion(ctx context.Context, id int64, payload *question.UpdateQuestionRequest) error
	DeleteQuestion(ctx context.Context, id int64) error
	GetQuestion(ctx context.Context, id int64) (*question.Question, error)
	ListQuestions(ctx context.Context) ([]question.Question, error)
	GetAnswer(ctx context.Context, id int64) (string, error)
}

// questionRow is the stored form of a question; choices is JSON text.
type questionRow struct {
	ID       int64  `db:"id"`
	Question string `db:"question"`
	Choices  string `db:"choices"`
	Answer   string `db:"answer"`
}

func (r questionRow) toQuestion() (*question.Question, error) {
	choices, err := decodeChoices(r.Choices)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", r.ID, err)
	}

	return &question.Question{
		ID:       r.ID,
		Question: r.Question,
		Choices:  choices,
		Answer:   r.Answer,
	}, nil
}

func encodeChoices(choices []string) (string, error) {
	if choices == nil {
		choices = []string{}
	}

	b, err := json.Marshal(choices)
	if err != nil {
		return "", fmt.Errorf("failed to encode choices: %w", err)
	}
	return string(b), nil
}

func decodeChoices(raw string) ([]string, error) {
	var choices []string
	if err := json.Unmarshal([]byte(raw), &choices); err != nil {
		return nil, fmt.Errorf("failed to decode stored choices: %w", err)
	}
	if choices == nil {
		choices = []string{}
	}
	return choices, nil
}

// buildUpdate returns an UPDATE touching only the supplied columns, followed
// by its arguments. placeholder renders the n-th (1-based) bind parameter.
func buildUpdate(id int64, payload *question.UpdateQuestionRequest, placeholder func(n int) string) (string, []any, error) {
	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = %s", column, placeholder(len(args))))
	}

	if payload.HasQuestion() {
		add("question", payload.Question)
	}
	if payload.HasChoices() {
		encoded, err := encodeChoices(payload.Choices)
		if err != nil {
			return "", nil, err
		}
		add("choices", encoded)
	}
	if payload.HasAnswer() {
		add("answer", payload.Answer)
	}

	if len(sets) == 0 {
		return "", nil, fmt.Errorf("update of question %d sets no columns", id)
	}

	args = append(args, id)
	stmt := fmt.Sprintf(`UPDATE %s SET %s WHERE id = %s`,
		questionsTable, strings.Join(sets, ", "), placeholder(len(args)))

	return stmt, args, nil
}

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func questionPlaceholder(int) string { return "?" }
