package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	TypeGenerationStarted   MessageType = "schedule.generation_started"
	TypeGenerationProgress  MessageType = "schedule.generation_progress"
	TypeGenerationCompleted MessageType = "schedule.generation_completed"
	TypeGenerationError     MessageType = "schedule.generation_error"
)

// Message is the envelope for every broadcast event.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// GenerationStartedPayload announces a batch run.
type GenerationStartedPayload struct {
	RequestID    string `json:"request_id"`
	TotalCourses int    `json:"total_courses"`
}

// GenerationProgressPayload reports one course finishing within a batch.
type GenerationProgressPayload struct {
	RequestID  string `json:"request_id"`
	CourseCode string `json:"course_code"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}

// GenerationCompletedPayload summarizes a finished batch.
type GenerationCompletedPayload struct {
	RequestID    string `json:"request_id"`
	CoursesFound int    `json:"courses_found"`
	NotFound     int    `json:"not_found"`
	Failures     int    `json:"failures"`
}

// GenerationErrorPayload reports a per-course failure.
type GenerationErrorPayload struct {
	RequestID  string `json:"request_id"`
	CourseCode string `json:"course_code"`
	Message    string `json:"message"`
}
