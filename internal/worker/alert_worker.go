package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitri99main/winny-pos-sub002/internal/infra"
)

// AlertWorker emails critical-variance notifications to the configured
// supervisor address. Sends go through a circuit breaker so a dead SMTP
// relay fast-fails instead of stalling the pool on dial timeouts.
type AlertWorker struct {
	mailer    *infra.Mailer
	breaker   *infra.CircuitBreaker
	recipient string
}

func NewAlertWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker, recipient string) *AlertWorker {
	return &AlertWorker{mailer: mailer, breaker: breaker, recipient: recipient}
}

func (w *AlertWorker) Handle(_ context.Context, payload json.RawMessage) error {
	var job VarianceAlertJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("alert worker: decode payload: %w", err)
	}

	subject := fmt.Sprintf("Cash variance alert: session %s", job.SessionID)
	body := fmt.Sprintf(
		"Cashier %s closed session %s at %s with a cash variance of %s.\n\n"+
			"Expected cash: %s\nCounted cash:  %s\n\n"+
			"Review the session in the admin panel.",
		job.UserName, job.SessionID, job.ClosedAt, job.Variance,
		job.ExpectedCash, job.EndingCash,
	)

	return w.breaker.Execute(func() error {
		return w.mailer.Send(w.recipient, subject, body, nil, "")
	})
}
