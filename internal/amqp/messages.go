package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reasons attached to month sync messages.
const (
	ReasonRecordChanged = "record_changed"
	ReasonManual        = "manual"
	ReasonScheduled     = "scheduled"
	ReasonImport        = "import"
)

// MonthSyncMessage asks the worker to recompute one month and push it to
// Google Sheets. The worker reloads all records, so the message carries only
// the month.
type MonthSyncMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthSyncMessage(year, month int, reason string) *MonthSyncMessage {
	return &MonthSyncMessage{
		Year:      year,
		Month:     month,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *MonthSyncMessage) Validate() error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("invalid month %d", m.Month)
	}
	if m.Year < 1 || m.Year > 9999 {
		return fmt.Errorf("invalid year %d", m.Year)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *MonthSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthSyncMessageFromJSON decodes and validates a message body.
func MonthSyncMessageFromJSON(data []byte) (*MonthSyncMessage, error) {
	var msg MonthSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
