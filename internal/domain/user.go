package domain

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID                   string         `json:"id" gorm:"primaryKey" bson:"_id"`
	Username             string         `json:"username" gorm:"uniqueIndex;not null" bson:"username"`
	Email                string         `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	Password             string         `json:"-" gorm:"not null" bson:"password"` // bcrypt hash
	Role                 Role           `json:"role" gorm:"not null;index" bson:"role"`
	Permissions          pq.StringArray `json:"permissions" gorm:"type:text[]" bson:"permissions"`
	Interests            pq.StringArray `json:"interests" gorm:"type:text[]" bson:"interests"`
	NewsletterSubscribed bool           `json:"newsletterSubscribed" bson:"newsletterSubscribed"`
	PhoneNumber          string         `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	ResetPasswordToken   *string        `json:"-" gorm:"index" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time     `json:"-" bson:"resetPasswordExpires,omitempty"`
	LastLogin            *time.Time     `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	IsActive             bool           `json:"isActive" gorm:"not null" bson:"isActive"`
	CreatedAt            time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ClearResetToken drops any pending password-reset state.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}

// HasInterest reports whether tag is among the user's interests.
func HasInterest(interests []string, tag string) bool {
	for _, i := range interests {
		if strings.EqualFold(i, tag) {
			return true
		}
	}
	return false
}

// MergeInterests returns the union of a and b, keeping the order of first appearance.
func MergeInterests(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, tag := range list {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}
