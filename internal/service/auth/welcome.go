package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const welcomeTimeout = 30 * time.Second

// SubscribeWelcomeMailer sends the welcome email for every user.registered message.
func SubscribeWelcomeMailer(mq queue.MessageQueue, mailer ports.EmailService, log *zap.Logger) error {
	return mq.Subscribe(queue.SubjectUserRegistered, func(data []byte) error {
		var msg queue.UserRegistered
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Error("dropping malformed user.registered message", zap.Error(err))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
		defer cancel()

		user := &domain.User{ID: msg.UserID, Username: msg.Username, Email: msg.Email}
		if err := mailer.SendWelcome(ctx, user); err != nil {
			log.Warn("welcome email failed", zap.String("user_id", msg.UserID), zap.Error(err))
			return fmt.Errorf("send welcome: %w", err)
		}
		return nil
	})
}
