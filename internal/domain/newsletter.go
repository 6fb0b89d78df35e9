package domain

import (
	"time"

	"github.com/lib/pq"
)

type NewsletterType string

const (
	NewsletterTypeSubscriber NewsletterType = "subscriber"
	NewsletterTypeNewsletter NewsletterType = "newsletter"
)

type NewsletterStatus string

const (
	NewsletterStatusDraft     NewsletterStatus = "draft"
	NewsletterStatusScheduled NewsletterStatus = "scheduled"
	NewsletterStatusSent      NewsletterStatus = "sent"
)

type SubscriberSource string

const (
	SourceWebsite     SubscriberSource = "website"
	SourceEvent       SubscriberSource = "event"
	SourceSocialMedia SubscriberSource = "social_media"
)

type Preferences struct {
	Events     bool `json:"events" bson:"events"`
	News       bool `json:"news" bson:"news"`
	Promotions bool `json:"promotions" bson:"promotions"`
}

func DefaultPreferences() Preferences {
	return Preferences{Events: true, News: true, Promotions: false}
}

// Newsletter holds either a subscriber or a piece of newsletter content,
// told apart by Type.
type Newsletter struct {
	ID   string         `json:"id" gorm:"primaryKey" bson:"_id"`
	Type NewsletterType `json:"type" gorm:"not null;index" bson:"type"`

	// subscriber
	Email             string           `json:"email,omitempty" gorm:"uniqueIndex:idx_newsletter_subscriber_email,where:type = 'subscriber'" bson:"email,omitempty"`
	FirstName         string           `json:"firstName,omitempty" bson:"firstName,omitempty"`
	Interests         pq.StringArray   `json:"interests,omitempty" gorm:"type:text[]" bson:"interests,omitempty"`
	Preferences       *Preferences     `json:"preferences,omitempty" gorm:"serializer:json" bson:"preferences,omitempty"`
	Source            SubscriberSource `json:"source,omitempty" bson:"source,omitempty"`
	SubscribedAt      *time.Time       `json:"subscribedAt,omitempty" bson:"subscribedAt,omitempty"`
	UnsubscribedAt    *time.Time       `json:"unsubscribedAt,omitempty" bson:"unsubscribedAt,omitempty"`
	UnsubscribeReason string           `json:"unsubscribeReason,omitempty" bson:"unsubscribeReason,omitempty"`
	IsActive          bool             `json:"isActive" gorm:"index" bson:"isActive"`

	// content
	Title          string           `json:"title,omitempty" bson:"title,omitempty"`
	Content        string           `json:"content,omitempty" gorm:"type:text" bson:"content,omitempty"`
	Category       string           `json:"category,omitempty" gorm:"index" bson:"category,omitempty"`
	Tags           pq.StringArray   `json:"tags,omitempty" gorm:"type:text[]" bson:"tags,omitempty"`
	Status         NewsletterStatus `json:"status,omitempty" gorm:"index" bson:"status,omitempty"`
	ScheduledDate  *time.Time       `json:"scheduledDate,omitempty" gorm:"index" bson:"scheduledDate,omitempty"`
	SentAt         *time.Time       `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	RecipientCount int              `json:"recipientCount,omitempty" bson:"recipientCount,omitempty"`
	OpenRate       float64          `json:"openRate" bson:"openRate"`
	ClickRate      float64          `json:"clickRate" bson:"clickRate"`
	CreatedBy      string           `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type NewsletterFilter struct {
	Search   string
	Category string
	Tags     []string
	Status   NewsletterStatus
}

// SendReport summarizes one newsletter dispatch.
type SendReport struct {
	NewsletterID string `json:"newsletterId"`
	Recipients   int    `json:"recipients"`
	Delivered    int    `json:"delivered"`
	Failed       int    `json:"failed"`
}
