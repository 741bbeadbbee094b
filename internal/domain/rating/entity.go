package rating

import (
	"strings"
	"time"
)

const (
	MinScore = 1
	MaxScore = 10

	// LowScoreThreshold marks scores that call for a development proposal.
	LowScoreThreshold = 3

	AnonymousToken = "Anonim"
	NoComment      = "Brak komentarza"
)

var sensitiveTerms = []string{"Kierownik", "Szef"}

type MonthlyRating struct {
	ID           int64
	AssignmentID int64
	Score        int
	Comment      string
	Date         time.Time
}

func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

func NeedsDevelopment(score int) bool {
	return score < LowScoreThreshold
}

// Anonymize replaces supervisor role names with AnonymousToken.
// Blank comments become NoComment.
func Anonymize(comment string) string {
	if strings.TrimSpace(comment) == "" {
		return NoComment
	}
	for _, term := range sensitiveTerms {
		comment = strings.ReplaceAll(comment, term, AnonymousToken)
	}
	return comment
}
