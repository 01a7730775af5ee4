package kafka

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/laurel/pkg/models"
)

var validate = validator.New()

// IncomingMessage wraps a raw Kafka message with parsed headers.
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	JobMessage *models.MatchJobMessage
}

// ParseJobMessage parses and validates the message value as a match job
// trigger. A trigger missing its dataset or job ids is malformed.
func (m *IncomingMessage) ParseJobMessage() error {
	var msg models.MatchJobMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	if err := validate.Struct(msg); err != nil {
		return err
	}
	m.JobMessage = &msg
	return nil
}
