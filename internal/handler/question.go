package handler

import (
	"fmt"
	"strconv"

	"github.com/deppfellow/online-quiz/internal/errs"
	"github.com/deppfellow/online-quiz/internal/model/question"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/deppfellow/online-quiz/internal/service"
	"github.com/labstack/echo/v4"
)

type QuestionHandler struct {
	Handler
	questionService *service.QuestionService
}

func NewQuestionHandler(s *server.Server, questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		Handler:         NewHandler(s),
		questionService: questionService,
	}
}

func (h *QuestionHandler) CreateQuestion(c echo.Context, payload *question.CreateQuestionRequest) (string, error) {
	id, err := h.questionService.CreateQuestion(c.Request().Context(), payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Question added with ID: %d", id), nil
}

func (h *QuestionHandler) UpdateQuestion(c echo.Context, payload *question.UpdateQuestionRequest) (string, error) {
	id, err := parseQuestionID(payload.ID)
	if err != nil {
		return "", err
	}

	if err := h.questionService.UpdateQuestion(c.Request().Context(), id, payload); err != nil {
		return "", err
	}
	return "Question updated successfully.", nil
}

func (h *QuestionHandler) DeleteQuestion(c echo.Context, payload *question.DeleteQuestionRequest) (string, error) {
	id, err := parseQuestionID(payload.ID)
	if err != nil {
		return "", err
	}

	if err := h.questionService.DeleteQuestion(c.Request().Context(), id); err != nil {
		return "", err
	}
	return "Question deleted successfully.", nil
}

func (h *QuestionHandler) GetQuestion(c echo.Context, payload *question.GetQuestionRequest) (*question.Question, error) {
	id, err := parseQuestionID(payload.ID)
	if err != nil {
		return nil, err
	}
	return h.questionService.GetQuestion(c.Request().Context(), id)
}

func (h *QuestionHandler) ListQuestions(c echo.Context, _ *question.ListQuestionsRequest) ([]question.Question, error) {
	return h.questionService.ListQuestions(c.Request().Context())
}

func (h *QuestionHandler) CheckAnswer(c echo.Context, payload *question.CheckAnswerRequest) (string, error) {
	correct, err := h.questionService.CheckAnswer(c.Request().Context(), payload)
	if err != nil {
		return "", err
	}
	if correct {
		return "Correct answer!", nil
	}
	return "Incorrect answer.", nil
}

// parseQuestionID parses a path id. An id that is not a base-10 integer
// cannot name a stored question, so it is reported as not found.
func parseQuestionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.NewNotFoundError("Question not found.", true, nil)
	}
	return id, nil
}
