package websocket

import "log"

// Broadcaster publishes schedule-generation events to the hub.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a broadcaster. A nil hub yields a broadcaster
// whose methods are no-ops, so handlers need no nil checks.
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// GenerationStarted announces that a batch of courses began processing.
func (b *Broadcaster) GenerationStarted(requestID string, totalCourses int) {
	b.broadcast(NewMessage(TypeGenerationStarted, GenerationStartedPayload{
		RequestID:    requestID,
		TotalCourses: totalCourses,
	}))
}

// GenerationProgress reports one course finishing.
func (b *Broadcaster) GenerationProgress(requestID, courseCode string, completed, total int) {
	b.broadcast(NewMessage(TypeGenerationProgress, GenerationProgressPayload{
		RequestID:  requestID,
		CourseCode: courseCode,
		Completed:  completed,
		Total:      total,
	}))
}

// GenerationCompleted summarizes a finished batch.
func (b *Broadcaster) GenerationCompleted(requestID string, found, notFound, failures int) {
	b.broadcast(NewMessage(TypeGenerationCompleted, GenerationCompletedPayload{
		RequestID:    requestID,
		CoursesFound: found,
		NotFound:     notFound,
		Failures:     failures,
	}))
}

// GenerationError reports a per-course failure without aborting the
// batch.
func (b *Broadcaster) GenerationError(requestID, courseCode string, err error) {
	b.broadcast(NewMessage(TypeGenerationError, GenerationErrorPayload{
		RequestID:  requestID,
		CourseCode: courseCode,
		Message:    err.Error(),
	}))
}

func (b *Broadcaster) broadcast(msg Message) {
	if b == nil || b.hub == nil {
		return
	}
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
