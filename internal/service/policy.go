package service

import (
	"math"

	"github.com/finprep/certquiz-backend/internal/model"
)

// EffectiveCount resolves the number of questions a new session gets.
// Segmented sessions default to one segment and are capped at one segment;
// full sessions always take the quiz type's whole published length and
// ignore any requested count.
func EffectiveCount(mode model.SessionMode, requested *int, quizTypeTotal int) int {
	if mode == model.SessionModeFull {
		return quizTypeTotal
	}
	count := model.SegmentSize
	if requested != nil {
		count = *requested
	}
	if count > model.SegmentSize {
		count = model.SegmentSize
	}
	return count
}

// BlockSize resolves how many unanswered questions one block delivery
// carries: one segment for segmented sessions, everything for full sessions.
func BlockSize(mode model.SessionMode, totalQuestions int) int {
	if mode == model.SessionModeFull {
		return totalQuestions
	}
	return model.SegmentSize
}

// Score computes the final percentage score, rounded half away from zero.
// An empty session scores zero rather than dividing by zero.
func Score(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
