// Package question holds the Question entity and the request payloads of the
// question endpoints.
package question

// Question is one multiple-choice quiz item.
//
// Answer must be one of Choices when the question is created; partial
// updates do not re-check that.
type Question struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

// IsCorrect reports whether choice matches the stored answer exactly.
// No trimming or case folding is applied.
func IsCorrect(answer, choice string) bool {
	return answer == choice
}
