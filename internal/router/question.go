package router

import (
	"net/http"

	"github.com/deppfellow/online-quiz/internal/handler"
	"github.com/deppfellow/online-quiz/internal/model/question"
	"github.com/labstack/echo/v4"
)

func registerQuestionRoutes(r *echo.Echo, h *handler.Handlers) {
	qh := h.Question

	r.POST("/create", handler.HandleText(qh.Handler, qh.CreateQuestion, http.StatusCreated, &question.CreateQuestionRequest{}))
	r.PUT("/update/:id", handler.HandleText(qh.Handler, qh.UpdateQuestion, http.StatusOK, &question.UpdateQuestionRequest{}))
	r.DELETE("/delete/:id", handler.HandleText(qh.Handler, qh.DeleteQuestion, http.StatusOK, &question.DeleteQuestionRequest{}))
	r.GET("/get/:id", handler.Handle(qh.Handler, qh.GetQuestion, http.StatusOK, &question.GetQuestionRequest{}))
	r.GET("/list", handler.Handle(qh.Handler, qh.ListQuestions, http.StatusOK, &question.ListQuestionsRequest{}))
	r.POST("/check-answer", handler.HandleText(qh.Handler, qh.CheckAnswer, http.StatusOK, &question.CheckAnswerRequest{}))
}
