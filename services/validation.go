// ABOUTME: Input validation for the advisory request surface
// ABOUTME: Bounds question length and sanitizes user text before logging

package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxQuestionRunes bounds advisory questions; anything longer is almost
// certainly pasted content the hosted model should not be billed for.
const maxQuestionRunes = 2000

// sanitizeForLog removes control characters from strings to prevent log
// injection when including user input in error messages or log records.
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateQuestion checks an advisory question and returns the trimmed form.
// Engine inputs are deliberately not validated here; the economics engine
// accepts any numeric record and resolves edge cases to sentinel values.
func ValidateQuestion(question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", fmt.Errorf("question cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxQuestionRunes {
		return "", fmt.Errorf("question exceeds %d characters", maxQuestionRunes)
	}
	return trimmed, nil
}

// ValidateSessionID checks that a session cookie value is a well-formed UUID.
// This prevents arbitrary client strings from reaching the result log.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session ID format: %s", sanitizeForLog(id))
	}
	return nil
}
