package service

import (
	"github.com/deppfellow/online-quiz/internal/repository"
	"github.com/deppfellow/online-quiz/internal/server"
)

type Services struct {
	Question *QuestionService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Question: NewQuestionService(s, repos.Question),
	}, nil
}
