package queue

import (
	"encoding/json"
	"fmt"
)

// Subjects published by the API.
const (
	SubjectUserRegistered = "user.registered"
	SubjectContactCreated = "contact.created"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// UserRegistered is the payload of SubjectUserRegistered.
type UserRegistered struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ContactCreated is the payload of SubjectContactCreated.
type ContactCreated struct {
	ContactID string `json:"contactId"`
}

// PublishJSON encodes v and publishes it on subject.
func PublishJSON(q MessageQueue, subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	return q.Publish(subject, data)
}

// Pinger is implemented by adapters that can report broker connectivity.
type Pinger interface {
	Ping() error
}
