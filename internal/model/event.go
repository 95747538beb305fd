package model

// EventType names one kind of stream event.
type EventType string

const (
	EventStatus   EventType = "status"
	EventBusiness EventType = "business"
	EventProgress EventType = "progress"
	EventSummary  EventType = "summary"
	EventError    EventType = "error"
	EventComplete EventType = "complete"
)

// StreamEvent is one unit of the incremental output protocol. Exactly one of
// the payload fields is set, matching Type.
type StreamEvent struct {
	Type     EventType        `json:"type"`
	Status   *StatusPayload   `json:"status,omitempty"`
	Business *BusinessPayload `json:"business,omitempty"`
	Progress *ProgressPayload `json:"progress,omitempty"`
	Summary  *Summary         `json:"summary,omitempty"`
	Error    *ErrorPayload    `json:"error,omitempty"`
	Complete *CompletePayload `json:"complete,omitempty"`
}

// StatusPayload carries a human-readable phase update.
type StatusPayload struct {
	Message string `json:"message"`
	Kind    string `json:"type"`
}

// BusinessPayload carries one processed business with its position.
type BusinessPayload struct {
	Business ProcessedBusiness `json:"business"`
	Index    int               `json:"index"`
	Total    int               `json:"total"`
}

// ProgressPayload reports how far through the run the producer is.
type ProgressPayload struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// ErrorPayload carries the single fatal error of a failed run.
type ErrorPayload struct {
	Error string `json:"error"`
}

// CompletePayload is the terminal event of a successful run.
type CompletePayload struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// Payload returns the populated payload for SSE serialization.
func (e StreamEvent) Payload() any {
	switch e.Type {
	case EventStatus:
		return e.Status
	case EventBusiness:
		return e.Business
	case EventProgress:
		return e.Progress
	case EventSummary:
		return map[string]*Summary{"summary": e.Summary}
	case EventError:
		return e.Error
	case EventComplete:
		return e.Complete
	}
	return nil
}
