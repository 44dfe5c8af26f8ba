package zephpost

import (
	"encoding/json"
	"fmt"
)

//go:generate msgp -file=envelope.go -o=envelope_gen.go -io=false -tests=false

// Envelope is a snapshot of one mail transaction: the client greeting, the
// sender and the recipients accepted so far.
type Envelope struct {
	// ConnectionID is the trace ID of the connection that built the envelope.
	ConnectionID string           `json:"connection_id" msg:"connection_id"`
	Helo         string           `json:"helo" msg:"helo"`
	From         MailboxAddress   `json:"from" msg:"from"`
	To           []MailboxAddress `json:"to" msg:"to"`
}

// ToJSON serializes the envelope to JSON bytes.
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ToJSONIndent serializes the envelope to pretty-printed JSON bytes.
func (e *Envelope) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// EnvelopeFromJSON deserializes an envelope from JSON bytes.
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ToMessagePack serializes the envelope to MessagePack bytes.
func (e *Envelope) ToMessagePack() ([]byte, error) {
	return e.MarshalMsg(nil)
}

// EnvelopeFromMessagePack deserializes an envelope from MessagePack bytes.
func EnvelopeFromMessagePack(data []byte) (*Envelope, error) {
	var e Envelope
	rest, err := e.UnmarshalMsg(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("smtp: %d trailing bytes after envelope", len(rest))
	}
	return &e, nil
}
