package store

import "context"

// PaidStore tracks which identities have completed checkout.
// Membership is monotonic: identities are only ever added, never removed.
type PaidStore interface {
	IsPaid(ctx context.Context, identity string) (bool, error)
	// MarkPaid inserts the identity. Marking an already-present identity
	// is a no-op.
	MarkPaid(ctx context.Context, identity string) error
	Count(ctx context.Context) (int64, error)
}
