package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jokepay/jokebot/internal/joke"
	"github.com/jokepay/jokebot/internal/payment"
	"github.com/jokepay/jokebot/internal/store"
)

// ErrSessionLookup wraps provider retrieval failures in the success
// callback. The API layer maps it to a server error.
var ErrSessionLookup = errors.New("checkout session lookup failed")

// Sentinel some carriers put in metadata instead of omitting the phone.
const phoneUnavailable = "not available"

// Confirmer processes payment-success callbacks: it unlocks the paying
// identity and sends the one-time welcome message.
type Confirmer struct {
	paid       store.PaidStore
	checkout   payment.CheckoutProvider
	sender     MessageSender
	senderName string
	logger     *slog.Logger
}

func NewConfirmer(paid store.PaidStore, checkout payment.CheckoutProvider, sender MessageSender, senderName string, logger *slog.Logger) *Confirmer {
	return &Confirmer{
		paid:       paid,
		checkout:   checkout,
		sender:     sender,
		senderName: senderName,
		logger:     logger.With("component", "confirmer"),
	}
}

// Confirm resolves a success-callback session id and returns the deep link
// the caller should be redirected to. A session without a usable phone is
// degraded, not an error: the redirect still happens, nothing is unlocked.
func (c *Confirmer) Confirm(ctx context.Context, sessionID string) (string, error) {
	sess, err := c.checkout.GetSession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionLookup, err)
	}

	c.logger.Info("payment confirmed",
		"session_id", sess.ID,
		"email", sess.CustomerEmail,
		"phone", sess.Phone,
		"amount", formatPrice(sess.AmountTotal),
	)

	phone := sess.Phone
	if phone == "" || strings.EqualFold(phone, phoneUnavailable) {
		c.logger.Warn("session has no phone metadata, skipping unlock", "session_id", sess.ID)
		return c.redirectTarget(), nil
	}

	if err := c.paid.MarkPaid(ctx, phone); err != nil {
		// The charge already went through; a lost write must not turn the
		// redirect into an error page.
		c.logger.Error("mark paid failed", "phone", phone, "error", err)
	}

	welcome := fmt.Sprintf(
		"🎉 Thank you for your purchase! You've unlocked PREMIUM DAD JOKES! 🎉\n\n"+
			"Here's your first joke:\n\n%s\n\n😂 Text me anytime for more!",
		joke.Random(),
	)
	if _, err := c.sender.SendText(ctx, "rcs:"+c.senderName, phone, welcome); err != nil {
		// Not rolled back: the user is paid even if the welcome never lands.
		c.logger.Error("welcome dispatch failed", "phone", phone, "error", err)
	}

	return c.redirectTarget(), nil
}

func (c *Confirmer) redirectTarget() string {
	return fmt.Sprintf("sms:%s@rbm.goog?body=I want my dad jokes!", c.senderName)
}
