package service

import (
	"context"
	"slices"

	"github.com/deppfellow/online-quiz/internal/errs"
	"github.com/deppfellow/online-quiz/internal/middleware"
	"github.com/deppfellow/online-quiz/internal/model/question"
	"github.com/deppfellow/online-quiz/internal/repository"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/deppfellow/online-quiz/internal/sqlerr"
)

// Generic messages returned when the store fails. The underlying error is
// only logged.
const (
	msgCreateFailed = "Error adding question."
	msgUpdateFailed = "Error updating question."
	msgDeleteFailed = "Error deleting question."
	msgGetFailed    = "Error fetching question."
	msgListFailed   = "Error fetching questions."
	msgCheckFailed  = "Error checking answer."
)

var answerNotInChoicesCode = "ANSWER_NOT_IN_CHOICES"

type QuestionService struct {
	server *server.Server
	repo   repository.QuestionRepository
}

func NewQuestionService(s *server.Server, repo repository.QuestionRepository) *QuestionService {
	return &QuestionService{server: s, repo: repo}
}

// CreateQuestion stores a new question and returns its id. The answer must
// be one of the choices.
func (s *QuestionService) CreateQuestion(ctx context.Context, payload *question.CreateQuestionRequest) (int64, error) {
	if !slices.Contains(payload.Choices, payload.Answer) {
		return 0, errs.NewBadRequestError("The answer must be one of the choices.", true, &answerNotInChoicesCode,
			[]errs.FieldError{{Field: "answer", Error: "must be one of the choices"}})
	}

	id, err := s.repo.CreateQuestion(ctx, payload)
	if err != nil {
		return 0, sqlerr.HandleError(err, msgCreateFailed)
	}

	middleware.LoggerFromContext(ctx).Info().Int64("question_id", id).Msg("question created")

	return id, nil
}

// UpdateQuestion writes the supplied fields of question id.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id int64, payload *question.UpdateQuestionRequest) error {
	if err := s.repo.UpdateQuestion(ctx, id, payload); err != nil {
		return sqlerr.HandleError(err, msgUpdateFailed)
	}
	return nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return sqlerr.HandleError(err, msgDeleteFailed)
	}

	middleware.LoggerFromContext(ctx).Info().Int64("question_id", id).Msg("question deleted")

	return nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err, msgGetFailed)
	}
	return q, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]question.Question, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, sqlerr.HandleError(err, msgListFailed)
	}
	return questions, nil
}

// CheckAnswer reports whether choice is the stored answer of question id.
func (s *QuestionService) CheckAnswer(ctx context.Context, payload *question.CheckAnswerRequest) (bool, error) {
	answer, err := s.repo.GetAnswer(ctx, payload.ID)
	if err != nil {
		return false, sqlerr.HandleError(err, msgCheckFailed)
	}
	return question.IsCorrect(answer, payload.Choice), nil
}
