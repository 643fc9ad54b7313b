package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamCorrelationRequest = "stream:correlation:request"
	StreamCorrelationDone    = "stream:correlation:done"
)

// CorrelationJob - входящая задача на привязку адресов к зонам
type CorrelationJob struct {
	JobID     uuid.UUID `json:"job_id"`
	Algorithm string    `json:"algorithm,omitempty"`
	Addresses []Address `json:"addresses"`
	Zones     []Zone    `json:"zones"`
	Attempt   int       `json:"attempt,omitempty"`
}

// HasWork проверяет, что в задаче есть что сопоставлять
func (j *CorrelationJob) HasWork() bool {
	return len(j.Addresses) > 0 && len(j.Zones) > 0
}

// CorrelationJobDone - результат обработки задачи
type CorrelationJobDone struct {
	JobID     uuid.UUID            `json:"job_id"`
	Algorithm string               `json:"algorithm"`
	Results   []AddressCorrelation `json:"results,omitempty"`
	Matched   int                  `json:"matched"`
	Error     string               `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
