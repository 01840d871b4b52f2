package repository

import (
	"github.com/deppfellow/online-quiz/internal/config"
	"github.com/deppfellow/online-quiz/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Question QuestionRepository
}

// NewRepositories picks the store implementation for the configured driver.
func NewRepositories(s *server.Server) *Repositories {
	var questions QuestionRepository

	switch s.DB.Driver {
	case config.DriverSQLite:
		questions = NewSQLiteQuestionRepository(s.DB.SQL)
	default:
		questions = NewQuestionRepository(s.DB.Pool)
	}

	return &Repositories{Question: questions}
}
