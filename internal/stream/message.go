package stream

import (
	"github.com/google/uuid"

	"github.com/rickgao/mtbridge/internal/model"
)

// Message types sent to clients.
const (
	TypeQuote        = "quote"
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypeError        = "error"
)

// Client commands.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// Quote is one tick as sent to stream clients.
type Quote struct {
	Type       string    `json:"type"`
	Instrument string    `json:"instrument"`
	Time       int64     `json:"time"` // milliseconds since epoch
	Bid        float64   `json:"bid"`
	Ask        float64   `json:"ask"`
	Last       float64   `json:"last"`
	Volume     int64     `json:"volume"`
	Spread     float64   `json:"spread"`
	Session    uuid.UUID `json:"session"`
}

// NewQuote converts a tick.
func NewQuote(t model.Tick, session uuid.UUID) Quote {
	ms := t.DateMs
	if ms == 0 {
		ms = t.Date * 1000
	}
	return Quote{
		Type:       TypeQuote,
		Instrument: t.Instrument,
		Time:       ms,
		Bid:        t.Bid,
		Ask:        t.Ask,
		Last:       t.Last,
		Volume:     t.Volume,
		Spread:     t.Spread,
		Session:    session,
	}
}

// Command is a client request.
type Command struct {
	Action      string   `json:"action"`
	Instruments []string `json:"instruments"`
}

// Reply acknowledges a command or reports a bad one. All and Instruments give
// the client's subscriptions after the command.
type Reply struct {
	Type        string   `json:"type"`
	All         bool     `json:"all"`
	Instruments []string `json:"instruments"`
	Error       string   `json:"error,omitempty"`
}
