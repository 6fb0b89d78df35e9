package contact

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const notifyTimeout = 30 * time.Second

// Notifier mails the site admin and the sender when a contact is created.
type Notifier struct {
	repo       ports.ContactRepository
	mailer     ports.EmailService
	adminEmail string
	log        *zap.Logger
}

func NewNotifier(repo ports.ContactRepository, mailer ports.EmailService, adminEmail string, log *zap.Logger) *Notifier {
	return &Notifier{
		repo:       repo,
		mailer:     mailer,
		adminEmail: adminEmail,
		log:        log,
	}
}

// Start subscribes to contact.created on mq.
func (n *Notifier) Start(mq queue.MessageQueue) error {
	return mq.Subscribe(queue.SubjectContactCreated, n.handle)
}

func (n *Notifier) handle(data []byte) error {
	var msg queue.ContactCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		n.log.Error("dropping malformed contact.created message", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	c, err := n.repo.FindByID(ctx, msg.ContactID)
	if err != nil {
		return err
	}
	if c == nil {
		n.log.Warn("contact vanished before notification", zap.String("contact_id", msg.ContactID))
		return nil
	}

	// Delivery failures are logged and never redelivered.
	var errs []error
	if n.adminEmail != "" {
		if err := n.mailer.SendContactNotification(ctx, n.adminEmail, c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := n.mailer.SendContactConfirmation(ctx, c); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		n.log.Warn("contact notification failed", zap.String("contact_id", c.ID), zap.Error(err))
	}
	return nil
}
