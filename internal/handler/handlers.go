package handler

import (
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/deppfellow/online-quiz/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Question *QuestionHandler
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Question: NewQuestionHandler(s, services.Question),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
