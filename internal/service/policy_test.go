package service

import (
	"testing"

	"github.com/finprep/certquiz-backend/internal/model"
)

func intPtr(n int) *int { return &n }

func TestEffectiveCount(t *testing.T) {
	tests := []struct {
		name      string
		mode      model.SessionMode
		requested *int
		total     int
		want      int
	}{
		{"segmented default", model.SessionModeSegmented, nil, 75, 10},
		{"segmented below cap", model.SessionModeSegmented, intPtr(5), 75, 5},
		{"segmented at cap", model.SessionModeSegmented, intPtr(10), 75, 10},
		{"segmented above cap", model.SessionModeSegmented, intPtr(50), 75, 10},
		{"full ignores request", model.SessionModeFull, intPtr(5), 75, 75},
		{"full default", model.SessionModeFull, nil, 125, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveCount(tt.mode, tt.requested, tt.total)
			if got != tt.want {
				t.Errorf("EffectiveCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBlockSize(t *testing.T) {
	if got := BlockSize(model.SessionModeSegmented, 75); got != model.SegmentSize {
		t.Errorf("segmented block size = %d, want %d", got, model.SegmentSize)
	}
	if got := BlockSize(model.SessionModeFull, 75); got != 75 {
		t.Errorf("full block size = %d, want 75", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"zero total", 0, 0, 0},
		{"all correct", 10, 10, 100},
		{"none correct", 0, 10, 0},
		{"half", 1, 2, 50},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
		{"rounds half up", 1, 8, 13}, // 12.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.correct, tt.total)
			if got != tt.want {
				t.Errorf("Score(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}
