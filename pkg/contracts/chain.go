package contracts

import "time"

// ChainEvent is one event observed on an external chain by the observation
// subsystem. Events are ordered per chain by SequenceIndex, never by arrival
// or insertion order.
type ChainEvent struct {
	ChainID       string    `json:"chainId"`
	EventHash     string    `json:"eventHash"`
	SequenceIndex int64     `json:"sequenceIndex"`
	Timestamp     time.Time `json:"timestamp"`
	Data          any       `json:"data,omitempty"`
}
