package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Its-Zach/grandline/internal/voice"
)

// VoiceHandler serves the voice-platform webhook. It owns the envelope
// shape; everything inside the request is handed to the dispatcher.
type VoiceHandler struct {
	dispatcher *voice.Dispatcher
}

// NewVoiceHandler creates a VoiceHandler around a dispatcher.
func NewVoiceHandler(dispatcher *voice.Dispatcher) *VoiceHandler {
	return &VoiceHandler{dispatcher: dispatcher}
}

// voiceEnvelope is the platform request wrapper around the dispatcher request.
type voiceEnvelope struct {
	Version string        `json:"version"`
	Request voice.Request `json:"request"`
}

// outputSpeech is the spoken-text fragment of the platform response.
type outputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type reprompt struct {
	OutputSpeech outputSpeech `json:"outputSpeech"`
}

type responseBody struct {
	OutputSpeech     outputSpeech `json:"outputSpeech"`
	Reprompt         *reprompt    `json:"reprompt,omitempty"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

// voiceResponse is the platform response envelope.
type voiceResponse struct {
	Version  string       `json:"version"`
	Response responseBody `json:"response"`
}

// HandleWebhook handles POST /voice. Protocol-level failures stay spoken:
// a malformed envelope gets the fallback utterance with status 200, because
// the platform retries on non-2xx and the user would hear nothing.
func (h *VoiceHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var envelope voiceEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		log.Printf("voice: malformed request envelope: %v", err)
		writeVoiceResponse(w, voice.ComposeFallback())
		return
	}

	result := h.dispatcher.HandleRequest(r.Context(), envelope.Request)
	writeVoiceResponse(w, result.Response)
}

// writeVoiceResponse wraps a spoken response in the platform envelope.
func writeVoiceResponse(w http.ResponseWriter, resp voice.Response) {
	body := voiceResponse{
		Version: "1.0",
		Response: responseBody{
			OutputSpeech:     outputSpeech{Type: "PlainText", Text: resp.OutputSpeech},
			ShouldEndSession: resp.ShouldEndSession,
		},
	}
	if resp.Reprompt != "" {
		body.Response.Reprompt = &reprompt{
			OutputSpeech: outputSpeech{Type: "PlainText", Text: resp.Reprompt},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("voice: failed to encode response envelope: %v", err)
	}
}
