package assistant

import "github.com/haa1117/AI-Voice-Assistant/pkg/response"

var (
	ErrEmptyCommand        = response.NewError(400, "command text is required")
	ErrInvalidAudioFile    = response.NewError(400, "invalid audio file")
	ErrAudioFileTooLarge   = response.NewError(400, "audio file too large")
	ErrTranscriptionFailed = response.NewError(500, "failed to transcribe audio")
	ErrTTSGenerationFailed = response.NewError(500, "failed to generate speech")
	ErrPatientNotFound     = response.NewError(404, "patient not found")
	ErrAudioNotFound       = response.NewError(404, "audio file not found")
)
