package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jokepay/jokebot/internal/joke"
	"github.com/jokepay/jokebot/internal/model"
	"github.com/jokepay/jokebot/internal/payment"
	"github.com/jokepay/jokebot/internal/store"
)

// MessageSender is the outbound messaging surface the service needs.
type MessageSender interface {
	SendText(ctx context.Context, from, to, body string) (sid string, err error)
	SendTemplate(ctx context.Context, from, to, contentSID string, variables map[string]string) (sid string, err error)
}

const (
	// Payload the quick-reply button under a joke posts back. It already
	// triggered a fresh webhook with its own joke, so it gets silence.
	ackBody = "get more jokes"

	// Pre-registered rich template carrying the checkout link.
	paymentLinkTemplateSID = "HXa9f820df155dad36b03a757e97137e64"

	// Hosted checkout URLs share this prefix; the remainder is the short
	// reference the template variable expects.
	checkoutURLPrefix = "https://checkout.stripe.com/c/pay/"

	errorReply = "🤖 Error: Even robots need to eat... I mean, process payments! Try again later."
)

var greetingKeywords = map[string]struct{}{
	"help":  {},
	"hello": {},
	"start": {},
}

// Replier decides what goes back for each inbound message.
type Replier struct {
	paid     store.PaidStore
	checkout payment.CheckoutProvider
	sender   MessageSender
	logger   *slog.Logger

	rules []rule
}

// rule is one row of the selector's ordered transition table. The first
// matching row wins.
type rule struct {
	name    string
	matches func(body string, paid bool) bool
	respond func(ctx context.Context, msg model.InboundMessage) string
}

func NewReplier(paid store.PaidStore, checkout payment.CheckoutProvider, sender MessageSender, logger *slog.Logger) *Replier {
	r := &Replier{
		paid:     paid,
		checkout: checkout,
		sender:   sender,
		logger:   logger.With("component", "replier"),
	}

	// Order is the contract: silence beats keywords beats paid status.
	// A paid user typing "hello" still sees the pitch, not a joke.
	r.rules = []rule{
		{
			name:    "button_ack",
			matches: func(body string, _ bool) bool { return body == ackBody },
			respond: func(context.Context, model.InboundMessage) string { return "" },
		},
		{
			name:    "greeting",
			matches: func(body string, _ bool) bool { _, ok := greetingKeywords[body]; return ok },
			respond: func(context.Context, model.InboundMessage) string { return onboardingReply() },
		},
		{
			name:    "premium_joke",
			matches: func(_ string, paid bool) bool { return paid },
			respond: func(context.Context, model.InboundMessage) string { return premiumJokeReply() },
		},
		{
			name:    "payment_link",
			matches: func(string, bool) bool { return true },
			respond: r.sendPaymentLink,
		},
	}

	return r
}

// HandleInbound returns the reply body for one inbound message. An empty
// string means reply with an empty document. Failures are downgraded to a
// conversational error reply; the webhook caller always gets a 200.
func (r *Replier) HandleInbound(ctx context.Context, msg model.InboundMessage) string {
	body := strings.ToLower(strings.TrimSpace(msg.Body))

	r.logger.Info("inbound message", "from", msg.From, "body", body)

	paid, err := r.paid.IsPaid(ctx, msg.From)
	if err != nil {
		r.logger.Error("paid lookup failed", "from", msg.From, "error", err)
		return errorReply
	}

	for _, rule := range r.rules {
		if rule.matches(body, paid) {
			return rule.respond(ctx, msg)
		}
	}

	// The last rule matches everything.
	return ""
}

func (r *Replier) sendPaymentLink(ctx context.Context, msg model.InboundMessage) string {
	sess, err := r.checkout.CreateSession(ctx, msg.From)
	if err != nil {
		r.logger.Error("checkout session create failed", "from", msg.From, "error", err)
		return errorReply
	}

	ref := strings.TrimPrefix(sess.URL, checkoutURLPrefix)
	vars := map[string]string{"1": ref}

	if _, err := r.sender.SendTemplate(ctx, msg.To, msg.From, paymentLinkTemplateSID, vars); err != nil {
		r.logger.Error("payment link dispatch failed", "from", msg.From, "error", err)
		return errorReply
	}

	// The link goes out through the template channel; the webhook reply
	// stays empty.
	return ""
}

func onboardingReply() string {
	return fmt.Sprintf(
		"👋 Welcome to the ULTIMATE Dad Joke Generator! 🎉\n\n"+
			"For just %s, you'll unlock LIFETIME access to the corniest, "+
			"most groan-worthy dad jokes on the planet! 🌎\n\n"+
			"Why pay? Because FREE dad jokes are like free hugs from strangers... "+
			"slightly uncomfortable and probably not worth it. 😅\n\n"+
			"Reply with ANY message to get started!",
		formatPrice(payment.PriceCents),
	)
}

func premiumJokeReply() string {
	return fmt.Sprintf(
		"🎭 HERE'S YOUR PREMIUM DAD JOKE:\n\n%s\n\n😂 Want another? Just text me again!",
		joke.Random(),
	)
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
