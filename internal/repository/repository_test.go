package repository

import (
	"reflect"
	"testing"

	"github.com/deppfellow/online-quiz/internal/model/question"
)

func TestBuildUpdate(t *testing.T) {
	tests := []struct {
		name        string
		payload     *question.UpdateQuestionRequest
		placeholder func(int) string
		wantStmt    string
		wantArgs    []any
	}{
		{
			name:        "question only",
			payload:     &question.UpdateQuestionRequest{Question: "new?"},
			placeholder: questionPlaceholder,
			wantStmt:    `UPDATE questions SET question = ? WHERE id = ?`,
			wantArgs:    []any{"new?", int64(7)},
		},
		{
			name:        "all fields postgres",
			payload:     &question.UpdateQuestionRequest{Question: "q", Choices: []string{"a", "b"}, Answer: "a"},
			placeholder: dollarPlaceholder,
			wantStmt:    `UPDATE questions SET question = $1, choices = $2, answer = $3 WHERE id = $4`,
			wantArgs:    []any{"q", `["a","b"]`, "a", int64(7)},
		},
		{
			name:        "choices and answer",
			payload:     &question.UpdateQuestionRequest{Choices: []string{}, Answer: "x"},
			placeholder: dollarPlaceholder,
			wantStmt:    `UPDATE questions SET choices = $1, answer = $2 WHERE id = $3`,
			wantArgs:    []any{`[]`, "x", int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, args, err := buildUpdate(7, tt.payload, tt.placeholder)
			if err != nil {
				t.Fatalf("buildUpdate failed: %v", err)
			}
			if stmt != tt.wantStmt {
				t.Fatalf("stmt = %q, want %q", stmt, tt.wantStmt)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildUpdateWithoutFields(t *testing.T) {
	if _, _, err := buildUpdate(1, &question.UpdateQuestionRequest{}, questionPlaceholder); err == nil {
		t.Fatalf("expected error when no column is set")
	}
}

func TestDecodeChoices(t *testing.T) {
	got, err := decodeChoices(`["x","y"]`)
	if err != nil || !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("decodeChoices = %v, %v", got, err)
	}

	got, err = decodeChoices(`null`)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice for null, got %#v, %v", got, err)
	}

	if _, err := decodeChoices(`{"a":1}`); err == nil {
		t.Fatalf("expected error for non-array value")
	}
}
