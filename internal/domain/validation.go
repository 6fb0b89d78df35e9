package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Interest tags accepted on users, subscribers and event categories.
var InterestTags = []string{"technology", "arts", "sports", "music", "travel", "food", "science", "education"}

const (
	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return CheckPasswordStrength(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("interest", func(fl validator.FieldLevel) bool {
			return IsInterestTag(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate runs struct-tag validation and returns a field-level
// ValidationFailed error, or nil.
func Validate(input any) error {
	err := validatorInstance().Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BadRequest(err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return ValidationFailed(fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "username":
		return "Username can only contain letters, numbers and underscores (3-30 characters)"
	case "phone":
		return "Please provide a valid phone number"
	case "strongpassword":
		if pw, _ := fe.Value().(string); len(pw) > MaxPasswordLength {
			return passwordLengthMessage
		}
		return passwordRuleMessage
	case "interest":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(InterestTags, ", "))
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func IsInterestTag(tag string) bool {
	for _, t := range InterestTags {
		if t == strings.ToLower(tag) {
			return true
		}
	}
	return false
}

const (
	passwordRuleMessage   = "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character"
	passwordLengthMessage = "Password cannot exceed 72 bytes"
)

// CheckPasswordStrength enforces length and character-class rules.
func CheckPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return BadRequest(passwordRuleMessage)
	}
	if len(password) > MaxPasswordLength {
		return BadRequest(passwordLengthMessage)
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return BadRequest(passwordRuleMessage)
	}
	return nil
}

// CheckEventDates rejects an end date earlier than the start date.
func CheckEventDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ValidationFailed(map[string]string{"startDate": "startDate and endDate are required"})
	}
	if end.Before(start) {
		return ValidationFailed(map[string]string{"endDate": "End date must be after start date"})
	}
	return nil
}

// CheckContactRating requires a 1-5 rating on reviews.
func CheckContactRating(t ContactType, rating *int) error {
	if t != ContactTypeReview {
		return nil
	}
	if rating == nil {
		return ValidationFailed(map[string]string{"rating": "Rating is required for reviews"})
	}
	if *rating < 1 || *rating > 5 {
		return ValidationFailed(map[string]string{"rating": "Rating must be between 1 and 5"})
	}
	return nil
}

// ---- request inputs ----

type RegisterInput struct {
	Username             string   `json:"username" validate:"required,username"`
	Email                string   `json:"email" validate:"required,email"`
	Password             string   `json:"password" validate:"required,strongpassword"`
	ConfirmPassword      string   `json:"confirmPassword" validate:"required"`
	Interests            []string `json:"interests" validate:"omitempty,dive,interest"`
	NewsletterSubscribed bool     `json:"newsletterSubscribed"`
	PhoneNumber          string   `json:"phoneNumber" validate:"omitempty,phone"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required"`
}

type ProfileUpdate struct {
	Username    *string  `json:"username" validate:"omitempty,username"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	PhoneNumber *string  `json:"phoneNumber" validate:"omitempty,phone"`
	Interests   []string `json:"interests" validate:"omitempty,dive,interest"`
}

type EventInput struct {
	Title       string    `json:"title" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"required,min=10,max=1000"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Location    string    `json:"location" validate:"required,max=200"`
	Category    string    `json:"category" validate:"omitempty,interest"`
}

type EventPatch struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string    `json:"description" validate:"omitempty,min=10,max=1000"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	Category    *string    `json:"category" validate:"omitempty,interest"`
	IsActive    *bool      `json:"isActive"`
}

type ContactInput struct {
	Type        ContactType `json:"type" validate:"required,oneof=information callback review"`
	Name        string      `json:"name" validate:"required,min=2,max=50"`
	Email       string      `json:"email" validate:"required,email"`
	PhoneNumber string      `json:"phoneNumber" validate:"omitempty,phone"`
	Message     string      `json:"message" validate:"required,min=10,max=500"`
	Rating      *int        `json:"rating" validate:"omitempty,min=1,max=5"`
}

type ContactStatusUpdate struct {
	Status     ContactStatus `json:"status" validate:"required,oneof=pending in-progress resolved closed"`
	AssignedTo *string       `json:"assignedTo"`
}

type SubscribeInput struct {
	Email       string           `json:"email" validate:"required,email"`
	FirstName   string           `json:"firstName" validate:"omitempty,max=50"`
	Interests   []string         `json:"interests" validate:"omitempty,dive,interest"`
	Preferences *Preferences     `json:"preferences"`
	Source      SubscriberSource `json:"source" validate:"omitempty,oneof=website event social_media"`
}

type UnsubscribeInput struct {
	Email  string `json:"email" validate:"required,email"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type NewsletterInput struct {
	Title         string     `json:"title" validate:"required,min=3,max=100"`
	Content       string     `json:"content" validate:"required,min=10,max=5000"`
	Category      string     `json:"category" validate:"omitempty,interest"`
	Tags          []string   `json:"tags" validate:"omitempty,dive,max=30"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

type AdminUpdate struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
}
