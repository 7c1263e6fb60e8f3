package notifier

import (
	"context"
	"encoding/json"
	"time"

	"carbooking/internal/infra"
	"carbooking/internal/infra/db"
	"carbooking/internal/usecase/commands"
	"carbooking/internal/usecase/queries"
)

// JobNotifier enqueues delivery jobs for an out-of-process worker instead of
// talking to a mail/SMS gateway inline. The lifecycle treats it as
// fire-and-forget either way.
type JobNotifier struct {
	db db.DBTX
}

func NewJobNotifier(dbtx db.DBTX) commands.Notifier {
	return &JobNotifier{db: dbtx}
}

func (n *JobNotifier) BookingConfirmed(ctx context.Context, view *queries.BookingView) error {
	return n.enqueue(ctx, "booking_confirmed", view)
}

func (n *JobNotifier) BookingExtended(ctx context.Context, view *queries.BookingView) error {
	return n.enqueue(ctx, "booking_extended", view)
}

func (n *JobNotifier) PaymentReceived(ctx context.Context, view *queries.BookingView) error {
	return n.enqueue(ctx, "payment_received", view)
}

const insertJobSQL = `
INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, 'pending')`

func (n *JobNotifier) enqueue(ctx context.Context, topic string, view *queries.BookingView) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":   view.ID,
		"booking_code": view.Code,
		"phone":        view.CustomerPhone,
		"topic":        topic,
	})
	if err != nil {
		return err
	}

	if _, err := n.db.Exec(ctx, insertJobSQL, "email", topic, payload, time.Now()); err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}
