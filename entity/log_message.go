package entity

import "time"

// LogMessage is a single log record persisted by the database collaborator.
type LogMessage struct {
	Time      time.Time `json:"time" bson:"time"`
	Level     string    `json:"level" bson:"level"`
	Source    string    `json:"source" bson:"source"`
	Text      string    `json:"text" bson:"text"`
	RequestId string    `json:"request_id,omitempty" bson:"request_id"`
}

func (l *LogMessage) DataType() string {
	return "log_message"
}
