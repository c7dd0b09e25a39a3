package entity

import (
	"time"
)

// VoiceInteraction is one interpreted command, kept for history and audits.
type VoiceInteraction struct {
	ID          string    `json:"id"`
	Transcript  string    `json:"transcript"`
	CommandType string    `json:"command_type"`
	Response    string    `json:"response"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}
