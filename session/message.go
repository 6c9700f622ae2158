package session

import (
	"errors"

	"voicetracker/capture"
	"voicetracker/transcription"
)

const genericFailure = "Failed to process audio. Please try again."

// UserMessage maps an error from capture or transcription onto the one
// sentence shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, capture.ErrPermissionDenied):
		return "Could not access microphone. Please ensure permissions are granted."
	case errors.Is(err, capture.ErrDeviceUnavailable):
		return "No microphone found. Connect an input device and try again."
	case errors.Is(err, transcription.ErrConfiguration):
		return "Gemini API key missing! Set GEMINI_API_KEY or run `voicetracker setup`."
	case errors.Is(err, transcription.ErrTransport):
		return "Could not reach the transcription service. Please try again."
	default:
		return genericFailure
	}
}
