// Package dispatch drives bulk personalized sends: render, assemble, send,
// one row at a time, with a fixed pause between attempts.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/table"
	"github.com/A01753312/correojoseph/internal/template"
)

// Template holds the three patterns rendered against each row: the
// recipient, the subject and the body.
type Template struct {
	To      string
	Subject string
	Body    string
}

// Outcome records the result of one attempted send.
type Outcome struct {
	Row     table.ContactRow
	To      string
	Success bool
	Detail  string
}

// Report aggregates a full bulk run. Sent+Failed equals the number of rows
// attempted; Outcomes keeps source order.
type Report struct {
	Sent     int
	Failed   int
	Aborted  bool
	Outcomes []Outcome
}

// SendFunc delivers one assembled envelope. Individual failures are recorded
// per row and never abort the run.
type SendFunc func(ctx context.Context, envelope mail.Envelope) error

// ProgressFunc receives incremental progress after each processed row.
type ProgressFunc func(processed, total int)

// RunBulk processes every row in source order: render the templates against
// the row's fields, assemble the envelope with the batch's shared attachment
// set, send, record the outcome, report progress and pause for delay before
// the next row. A template rendering error aborts the whole run immediately
// (a broken template is configuration, not data) and is returned alongside
// the partial report. Cancelling the context stops the run between rows.
// A re-invocation always starts a fresh run over the full row set.
func RunBulk(
	ctx context.Context,
	rows []table.ContactRow,
	tpl Template,
	attachments []mail.Attachment,
	send SendFunc,
	delay time.Duration,
	progress ProgressFunc,
) (*Report, error) {
	report := &Report{Outcomes: make([]Outcome, 0, len(rows))}
	total := len(rows)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			return report, fmt.Errorf("dispatch cancelled after %d of %d rows: %w", i, total, err)
		}

		to, subject, body, err := renderRow(tpl, row)
		if err != nil {
			report.Aborted = true
			return report, err
		}

		envelope := mail.Assemble(to, subject, body, attachments)

		outcome := Outcome{Row: row, To: to}
		if sendErr := send(ctx, envelope); sendErr != nil {
			report.Failed++
			outcome.Detail = sendErr.Error()
		} else {
			report.Sent++
			outcome.Success = true
			outcome.Detail = "sent to " + to
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if progress != nil {
			progress(i+1, total)
		}

		if delay > 0 && i < total-1 {
			if err := pause(ctx, delay); err != nil {
				report.Aborted = true
				return report, fmt.Errorf("dispatch cancelled after %d of %d rows: %w", i+1, total, err)
			}
		}
	}

	return report, nil
}

// renderRow renders all three patterns; the first MissingFieldError wins.
func renderRow(tpl Template, row table.ContactRow) (to, subject, body string, err error) {
	if to, err = template.Render(tpl.To, row.Fields); err != nil {
		return "", "", "", err
	}
	if subject, err = template.Render(tpl.Subject, row.Fields); err != nil {
		return "", "", "", err
	}
	if body, err = template.Render(tpl.Body, row.Fields); err != nil {
		return "", "", "", err
	}
	return to, subject, body, nil
}

// pause sleeps for the inter-send delay, waking early on cancellation.
func pause(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTemplateError reports whether a run was aborted by a template
// configuration error rather than cancellation.
func IsTemplateError(err error) bool {
	var missing *template.MissingFieldError
	return errors.As(err, &missing)
}
