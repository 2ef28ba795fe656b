package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/jokepay/jokebot/internal/joke"
	"github.com/jokepay/jokebot/internal/model"
	"github.com/jokepay/jokebot/internal/payment"
	"github.com/jokepay/jokebot/internal/service"
	"github.com/jokepay/jokebot/internal/store"
)

type fakePaidStore struct {
	paid      map[string]struct{}
	isPaidErr error
	markErr   error

	markCalls []string
}

var _ store.PaidStore = (*fakePaidStore)(nil)

func newFakePaidStore(paid ...string) *fakePaidStore {
	f := &fakePaidStore{paid: make(map[string]struct{})}
	for _, p := range paid {
		f.paid[p] = struct{}{}
	}
	return f
}

func (f *fakePaidStore) IsPaid(_ context.Context, identity string) (bool, error) {
	if f.isPaidErr != nil {
		return false, f.isPaidErr
	}
	_, ok := f.paid[identity]
	return ok, nil
}

func (f *fakePaidStore) MarkPaid(_ context.Context, identity string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markCalls = append(f.markCalls, identity)
	f.paid[identity] = struct{}{}
	return nil
}

func (f *fakePaidStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.paid)), nil
}

type fakeCheckout struct {
	sess *payment.Session
	err  error

	createCalls []string
	getCalls    []string
}

var _ payment.CheckoutProvider = (*fakeCheckout)(nil)

func (f *fakeCheckout) CreateSession(_ context.Context, phone string) (*payment.Session, error) {
	f.createCalls = append(f.createCalls, phone)
	return f.sess, f.err
}

func (f *fakeCheckout) GetSession(_ context.Context, id string) (*payment.Session, error) {
	f.getCalls = append(f.getCalls, id)
	return f.sess, f.err
}

type sentText struct {
	From, To, Body string
}

type sentTemplate struct {
	From, To, ContentSID string
	Variables            map[string]string
}

type fakeSender struct {
	textErr     error
	templateErr error

	texts     []sentText
	templates []sentTemplate
}

var _ service.MessageSender = (*fakeSender)(nil)

func (f *fakeSender) SendText(_ context.Context, from, to, body string) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	f.texts = append(f.texts, sentText{From: from, To: to, Body: body})
	return "SM1", nil
}

func (f *fakeSender) SendTemplate(_ context.Context, from, to, contentSID string, variables map[string]string) (string, error) {
	if f.templateErr != nil {
		return "", f.templateErr
	}
	f.templates = append(f.templates, sentTemplate{From: from, To: to, ContentSID: contentSID, Variables: variables})
	return "SM2", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newReplier(paid *fakePaidStore, checkout *fakeCheckout, sender *fakeSender) *service.Replier {
	return service.NewReplier(paid, checkout, sender, testLogger())
}

func TestReplier_ButtonAck_Silence(t *testing.T) {
	t.Parallel()

	for _, paidUser := range []bool{false, true} {
		st := newFakePaidStore()
		if paidUser {
			st = newFakePaidStore("+361234567")
		}
		checkout := &fakeCheckout{}
		sender := &fakeSender{}
		r := newReplier(st, checkout, sender)

		got := r.HandleInbound(context.Background(), model.InboundMessage{
			From: "+361234567",
			To:   "+3600",
			Body: "  Get More Jokes \n",
		})

		if got != "" {
			t.Fatalf("paid=%v: expected silence, got %q", paidUser, got)
		}
		if len(checkout.createCalls) != 0 {
			t.Fatalf("paid=%v: expected no checkout calls, got %d", paidUser, len(checkout.createCalls))
		}
		if len(sender.templates) != 0 || len(sender.texts) != 0 {
			t.Fatalf("paid=%v: expected no dispatches", paidUser)
		}
	}
}

func TestReplier_GreetingKeywords_Onboarding(t *testing.T) {
	t.Parallel()

	bodies := []string{"help", " HELP ", "Hello", "hello\n", "start", "\tStArT  "}

	for _, body := range bodies {
		r := newReplier(newFakePaidStore(), &fakeCheckout{}, &fakeSender{})

		got := r.HandleInbound(context.Background(), model.InboundMessage{
			From: "+361234567",
			To:   "+3600",
			Body: body,
		})

		if !strings.Contains(got, "$2.99") {
			t.Fatalf("body %q: expected onboarding price $2.99, got %q", body, got)
		}
		if !strings.Contains(got, "Reply with ANY message") {
			t.Fatalf("body %q: expected onboarding invitation, got %q", body, got)
		}
	}
}

func TestReplier_GreetingBeatsPaidStatus(t *testing.T) {
	t.Parallel()

	st := newFakePaidStore("+361234567")
	checkout := &fakeCheckout{}
	r := newReplier(st, checkout, &fakeSender{})

	got := r.HandleInbound(context.Background(), model.InboundMessage{
		From: "+361234567",
		To:   "+3600",
		Body: "hello",
	})

	if !strings.Contains(got, "$2.99") {
		t.Fatalf("expected onboarding pitch for paid greeting, got %q", got)
	}
	if strings.Contains(got, "🎭") {
		t.Fatalf("expected no joke for paid greeting, got %q", got)
	}
	if len(checkout.createCalls) != 0 {
		t.Fatalf("expected no checkout calls, got %d", len(checkout.createCalls))
	}
}

func TestReplier_PaidGetsPremiumJoke(t *testing.T) {
	t.Parallel()

	st := newFakePaidStore("+361234567")
	checkout := &fakeCheckout{}
	sender := &fakeSender{}
	r := newReplier(st, checkout, sender)

	got := r.HandleInbound(context.Background(), model.InboundMessage{
		From: "+361234567",
		To:   "+3600",
		Body: "another one please",
	})

	if !strings.HasPrefix(got, "🎭") {
		t.Fatalf("expected premium banner, got %q", got)
	}

	found := false
	for _, j := range joke.All() {
		if strings.Contains(got, j) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected reply to contain a catalogue joke, got %q", got)
	}

	if len(checkout.createCalls) != 0 {
		t.Fatalf("expected no checkout calls for paid user, got %d", len(checkout.createCalls))
	}
}

func TestReplier_UnpaidDispatchesPaymentLinkTemplate(t *testing.T) {
	t.Parallel()

	st := newFakePaidStore()
	checkout := &fakeCheckout{
		sess: &payment.Session{
			ID:  "cs_test_123",
			URL: "https://checkout.stripe.com/c/pay/cs_test_123",
		},
	}
	sender := &fakeSender{}
	r := newReplier(st, checkout, sender)

	got := r.HandleInbound(context.Background(), model.InboundMessage{
		From: "+361234567",
		To:   "+3600",
		Body: "tell me a joke",
	})

	if got != "" {
		t.Fatalf("expected empty webhook reply on template dispatch, got %q", got)
	}

	if !slices.Equal(checkout.createCalls, []string{"+361234567"}) {
		t.Fatalf("expected one checkout session for sender, got %+v", checkout.createCalls)
	}

	if len(sender.templates) != 1 {
		t.Fatalf("expected one template dispatch, got %d", len(sender.templates))
	}
	tmpl := sender.templates[0]
	if tmpl.From != "+3600" || tmpl.To != "+361234567" {
		t.Fatalf("expected dispatch from service number to sender, got from=%q to=%q", tmpl.From, tmpl.To)
	}
	if tmpl.Variables["1"] != "cs_test_123" {
		t.Fatalf("expected checkout prefix stripped to cs_test_123, got %q", tmpl.Variables["1"])
	}
	if len(sender.texts) != 0 {
		t.Fatalf("expected no plain-text reply, got %+v", sender.texts)
	}
}

func TestReplier_CheckoutFailure_ErrorReply(t *testing.T) {
	t.Parallel()

	checkout := &fakeCheckout{err: errors.New("stripe down")}
	sender := &fakeSender{}
	r := newReplier(newFakePaidStore(), checkout, sender)

	got := r.HandleInbound(context.Background(), model.InboundMessage{
		From: "+361234567",
		To:   "+3600",
		Body: "joke please",
	})

	if !strings.Contains(got, "Try again later") {
		t.Fatalf("expected retry-later error reply, got %q", got)
	}
	if len(sender.templates) != 0 {
		t.Fatalf("expected no template dispatch after checkout failure")
	}
}

func TestReplier_DispatchFailure_ErrorReply(t *testing.T) {
	t.Parallel()

	checkout := &fakeCheckout{
		sess: &payment.Session{URL: "https://checkout.stripe.com/c/pay/cs_test_9"},
	}
	sender := &fakeSender{templateErr: errors.New("twilio down")}
	r := newReplier(newFakePaidStore(), checkout, sender)

	got := r.HandleInbound(context.Background(), model.InboundMessage{
		From: "+361234567",
		To:   "+3600",
		Body: "joke please",
	})

	if !strings.Contains(got, "Try again later") {
		t.Fatalf("expected retry-later error reply, got %q", got)
	}
}

func TestReplier_PaidLookupFailure_ErrorReply(t *testing.T) {
	t.Parallel()

	st := newFakePaidStore()
	st.isPaidErr = errors.New("redis down")
	checkout := &fakeCheckout{}
	r := newReplier(st, checkout, &fakeSender{})

	got := r.HandleInbound(context.Background(), model.InboundMessage{
		From: "+361234567",
		To:   "+3600",
		Body: "anything",
	})

	if !strings.Contains(got, "Try again later") {
		t.Fatalf("expected retry-later error reply, got %q", got)
	}
	if len(checkout.createCalls) != 0 {
		t.Fatalf("expected no checkout calls when the store is down")
	}
}
