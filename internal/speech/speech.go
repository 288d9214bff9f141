// Package speech holds the interfaces to the external audio collaborators.
// The core never touches audio itself: transcription happens upstream and
// synthesis happens at the terminal.
package speech

import "context"

// Transcriber turns raw audio into text. An empty transcript with a nil
// error means no speech was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Speaker delivers a reply towards a terminal's speech output. Delivery is
// fire-and-forget; implementations log failures instead of returning them.
type Speaker interface {
	Speak(ctx context.Context, terminalID, text string)
}

// NopSpeaker discards replies. It stands in when no terminal bridge is
// configured.
type NopSpeaker struct{}

var _ Speaker = NopSpeaker{}

func (NopSpeaker) Speak(ctx context.Context, terminalID, text string) {}
