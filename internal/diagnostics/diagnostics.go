// Package diagnostics publishes failed form submissions on the event bus
// and logs them for developers.
package diagnostics

import (
	"context"
	"log/slog"

	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/pubsub"
)

// SubmissionFailed carries every failed login or signup attempt.
var SubmissionFailed = pubsub.NewEvent[form.Event]("authform.diagnostics")

// Reporter implements form.Reporter on a pubsub.Publisher.
type Reporter struct {
	pub pubsub.Publisher
}

// NewReporter creates a Reporter.
func NewReporter(pub pubsub.Publisher) *Reporter {
	return &Reporter{pub: pub}
}

// Report publishes ev. Publishing errors are logged and dropped.
func (r *Reporter) Report(ctx context.Context, ev form.Event) {
	if err := pubsub.Publish(ctx, r.pub, SubmissionFailed, ev.Login, ev); err != nil {
		slog.Error("Failed to publish diagnostic event", "flow", ev.Flow, "error", err)
	}
}

// Listen logs every diagnostic event until ctx is canceled.
func Listen(ctx context.Context, sub pubsub.Subscriber, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	return pubsub.Subscribe(ctx, sub, SubmissionFailed, func(ctx context.Context, ev form.Event) error {
		logger.Warn("Submission failed",
			"flow", ev.Flow,
			"login", ev.Login,
			"status", ev.Status,
			"message", ev.Message,
			"error", ev.Error,
		)
		return nil
	})
}
