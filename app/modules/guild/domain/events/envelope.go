package guildevents

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownEventType is returned for event types the sidecar does not route.
	ErrUnknownEventType = errors.New("unknown guild event type")
	// ErrEventTypeMismatch is returned when the envelope type differs from the expected one.
	ErrEventTypeMismatch = errors.New("guild event type mismatch")
)

// Envelope is the wrapper every guild service event travels in.
type Envelope struct {
	Version   string `json:"v"`
	EventType int    `json:"t"`
	Payload   any    `json:"p"`
}

type rawEnvelope struct {
	Version   string          `json:"v"`
	EventType int             `json:"t"`
	Payload   json.RawMessage `json:"p"`
}

// Marshal encodes payload into an envelope of type t.
func Marshal(version string, t EventType, payload any) ([]byte, error) {
	data, err := json.Marshal(&Envelope{
		Version:   version,
		EventType: int(t),
		Payload:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %d envelope: %w", int(t), err)
	}
	return data, nil
}

// Unmarshal decodes the envelope in data, fills payload from its "p" field and
// returns the envelope event type.
func Unmarshal(data []byte, payload any) (EventType, error) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return EventType(env.EventType), fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return EventType(env.EventType), nil
}

// UnmarshalAs is Unmarshal with a check that the envelope carries type want.
// Envelopes with t omitted (zero) are accepted.
func UnmarshalAs(data []byte, want EventType, payload any) error {
	got, err := Unmarshal(data, payload)
	if err != nil {
		return err
	}
	if got != 0 && got != want {
		return fmt.Errorf("%w: got %d, want %d", ErrEventTypeMismatch, int(got), int(want))
	}
	return nil
}
