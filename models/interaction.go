package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction type constants
const (
	InteractionTypeCall    = "call"
	InteractionTypeEmail   = "email"
	InteractionTypeSMS     = "sms"
	InteractionTypeMeeting = "meeting"
)

// Sentiment label constants
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Interaction is a recorded contact event against a customer
type Interaction struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CustomerID string `gorm:"type:uuid;not null;index" json:"customer_id"`

	Type       string    `gorm:"not null" json:"type"` // call, email, sms, meeting
	OccurredAt time.Time `gorm:"index" json:"occurred_at"`

	// Duration in minutes; nullable (meaningful for calls/meetings)
	DurationMinutes *int `json:"duration_minutes,omitempty"`

	// Free-text summary or transcript of the interaction
	Summary string `gorm:"type:text" json:"summary"`

	// Sentiment label; nullable until the transcript has been analyzed
	Sentiment *string `json:"sentiment,omitempty"`

	// Storage key of an uploaded call recording, if any
	RecordingKey string `json:"recording_key,omitempty"`
	RecordingURL string `json:"recording_url,omitempty"`
}

// BeforeCreate hook to generate UUID and default the event time
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.OccurredAt.IsZero() {
		i.OccurredAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Interaction model
func (Interaction) TableName() string {
	return "interactions"
}

// IsValidInteractionType checks if the type is valid
func IsValidInteractionType(t string) bool {
	switch t {
	case InteractionTypeCall, InteractionTypeEmail, InteractionTypeSMS, InteractionTypeMeeting:
		return true
	}
	return false
}

// IsValidSentiment checks if the sentiment label is valid
func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}
