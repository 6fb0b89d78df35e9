package domain

import "time"

type ContactType string

const (
	ContactTypeInformation ContactType = "information"
	ContactTypeCallback    ContactType = "callback"
	ContactTypeReview      ContactType = "review"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactTypeInformation, ContactTypeCallback, ContactTypeReview:
		return true
	}
	return false
}

type ContactStatus string

const (
	ContactStatusPending    ContactStatus = "pending"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusPending, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

var contactTransitions = map[ContactStatus][]ContactStatus{
	ContactStatusPending:    {ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed},
	ContactStatusInProgress: {ContactStatusResolved, ContactStatusClosed},
	ContactStatusResolved:   {ContactStatusClosed},
}

// CanTransitionTo reports whether a contact may move from s to next.
// Re-applying the current status is always allowed.
func (s ContactStatus) CanTransitionTo(next ContactStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range contactTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Contact struct {
	ID          string        `json:"id" gorm:"primaryKey" bson:"_id"`
	Type        ContactType   `json:"type" gorm:"not null;index" bson:"type"`
	Name        string        `json:"name" gorm:"not null" bson:"name"`
	Email       string        `json:"email" gorm:"not null" bson:"email"`
	PhoneNumber string        `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Message     string        `json:"message" gorm:"type:text;not null" bson:"message"`
	Rating      *int          `json:"rating,omitempty" bson:"rating,omitempty"`
	Status      ContactStatus `json:"status" gorm:"not null;index" bson:"status"`
	AssignedTo  *string       `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	UserID      *string       `json:"userId,omitempty" gorm:"index" bson:"userId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type ContactFilter struct {
	Status ContactStatus
	Type   ContactType
	Search string
}
