package question

import (
	"errors"
	"testing"

	"github.com/deppfellow/online-quiz/internal/validation"
	"github.com/go-playground/validator/v10"
)

func TestCreateQuestionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateQuestionRequest
		wantErr bool
	}{
		{name: "complete", req: CreateQuestionRequest{Question: "2+2?", Choices: []string{"3", "4"}, Answer: "4"}},
		{name: "empty choices still present", req: CreateQuestionRequest{Question: "2+2?", Choices: []string{}, Answer: "4"}},
		{name: "missing question", req: CreateQuestionRequest{Choices: []string{"4"}, Answer: "4"}, wantErr: true},
		{name: "null choices", req: CreateQuestionRequest{Question: "2+2?", Answer: "4"}, wantErr: true},
		{name: "empty answer", req: CreateQuestionRequest{Question: "2+2?", Choices: []string{"4"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve validator.ValidationErrors
				if !errors.As(err, &ve) {
					t.Fatalf("expected validator.ValidationErrors, got %T", err)
				}
			}
		})
	}
}

func TestUpdateQuestionRequestValidate(t *testing.T) {
	empty := &UpdateQuestionRequest{ID: "1"}
	err := empty.Validate()

	var custom validation.CustomValidationErrors
	if !errors.As(err, &custom) {
		t.Fatalf("expected CustomValidationErrors for empty update, got %v", err)
	}

	for _, req := range []*UpdateQuestionRequest{
		{Question: "new?"},
		{Choices: []string{}},
		{Answer: "x"},
	} {
		if err := req.Validate(); err != nil {
			t.Fatalf("unexpected error for %+v: %v", req, err)
		}
	}

	withChoices := &UpdateQuestionRequest{Choices: []string{"a"}}
	if withChoices.HasQuestion() || !withChoices.HasChoices() || withChoices.HasAnswer() {
		t.Fatalf("presence flags wrong for %+v", withChoices)
	}
}

func TestCheckAnswerRequestValidate(t *testing.T) {
	if err := (&CheckAnswerRequest{ID: 3, Choice: "4"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&CheckAnswerRequest{Choice: "4"}).Validate(); err == nil {
		t.Fatalf("expected zero id to fail")
	}
	if err := (&CheckAnswerRequest{ID: 3}).Validate(); err == nil {
		t.Fatalf("expected empty choice to fail")
	}
}

func TestIsCorrectIsExact(t *testing.T) {
	if !IsCorrect("Paris", "Paris") {
		t.Fatalf("expected exact match to be correct")
	}
	for _, choice := range []string{"paris", " Paris", "Paris "} {
		if IsCorrect("Paris", choice) {
			t.Fatalf("expected %q to be incorrect", choice)
		}
	}
}
