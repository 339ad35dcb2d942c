package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes published on the bus.
const (
	TypeEstimatePatched     = "ESTIMATE_PATCHED"
	TypeEstimateRegenerated = "ESTIMATE_REGENERATED"
	TypeFileProcessed       = "FILE_PROCESSED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ESTIMATE_PATCHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation; the constructors below are the
// preferred way to build one.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEstimatePatched reports that a patch batch ran against an estimate.
// Applied and rejected count the per-request outcomes.
func NewEstimatePatched(estimateId, userId uuid.UUID, applied, rejected int) Event {
	return BaseEvent{
		Type: TypeEstimatePatched,
		Data: map[string]interface{}{
			"estimate_id": estimateId.String(),
			"user_id":     userId.String(),
			"applied":     applied,
			"rejected":    rejected,
		},
		OccurredAt: time.Now(),
	}
}

func NewEstimateRegenerated(estimateId, userId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeEstimateRegenerated,
		Data: map[string]interface{}{
			"estimate_id": estimateId.String(),
			"user_id":     userId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewFileProcessed(fileId, projectId, userId uuid.UUID, extracted bool) Event {
	return BaseEvent{
		Type: TypeFileProcessed,
		Data: map[string]interface{}{
			"file_id":    fileId.String(),
			"project_id": projectId.String(),
			"user_id":    userId.String(),
			"extracted":  extracted,
		},
		OccurredAt: time.Now(),
	}
}
