// Package protocol defines the wire envelope and the closed set of inbound
// commands and outbound notifications relayed by the intercom.
package protocol

import (
	"encoding/json"
	"errors"
)

var ErrMalformedFrame = errors.New("malformed frame")

// Envelope is the outer shape of every frame: {"type": ..., "data": {...}}.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, ErrMalformedFrame
	}
	if env.Type == "" {
		return Envelope{}, ErrMalformedFrame
	}
	return env, nil
}

// DecodeData parses an envelope's payload into a typed command.
func DecodeData(env Envelope, v any) error {
	if len(env.Data) == 0 {
		return ErrMalformedFrame
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return ErrMalformedFrame
	}
	return nil
}
