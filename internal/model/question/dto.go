package question

import (
	"github.com/deppfellow/online-quiz/internal/validation"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ------------------------------------------------------------

// CreateQuestionRequest is the body of POST /create.
//
// Choices is present when the key is given and not null, so an empty
// array passes here and fails the answer-in-choices check instead.
type CreateQuestionRequest struct {
	Question string   `json:"question" validate:"required"`
	Choices  []string `json:"choices" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
}

func (p *CreateQuestionRequest) Validate() error {
	return validate.Struct(p)
}

func (p *CreateQuestionRequest) ValidationMessage() string {
	return "Question, choices, and answer are required."
}

// ------------------------------------------------------------

// UpdateQuestionRequest is the body of PUT /update/:id. Only the fields
// that are present are written.
type UpdateQuestionRequest struct {
	ID       string   `param:"id" json:"-"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

func (p *UpdateQuestionRequest) Validate() error {
	if p.Question == "" && p.Choices == nil && p.Answer == "" {
		return validation.CustomValidationErrors{
			{Field: "body", Message: "at least one of question, choices, answer is required"},
		}
	}
	return nil
}

func (p *UpdateQuestionRequest) ValidationMessage() string {
	return "At least one field (question, choices, answer) is required."
}

// HasQuestion, HasChoices and HasAnswer report which columns an update sets.
func (p *UpdateQuestionRequest) HasQuestion() bool { return p.Question != "" }
func (p *UpdateQuestionRequest) HasChoices() bool  { return p.Choices != nil }
func (p *UpdateQuestionRequest) HasAnswer() bool   { return p.Answer != "" }

// ------------------------------------------------------------

type GetQuestionRequest struct {
	ID string `param:"id"`
}

func (p *GetQuestionRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type DeleteQuestionRequest struct {
	ID string `param:"id"`
}

func (p *DeleteQuestionRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type ListQuestionsRequest struct{}

func (p *ListQuestionsRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

// CheckAnswerRequest is the body of POST /check-answer. An id of 0 counts
// as missing.
type CheckAnswerRequest struct {
	ID     int64  `json:"id" validate:"required"`
	Choice string `json:"choice" validate:"required"`
}

func (p *CheckAnswerRequest) Validate() error {
	return validate.Struct(p)
}

func (p *CheckAnswerRequest) ValidationMessage() string {
	return "ID and choice are required."
}
