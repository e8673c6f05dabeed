// Package chat builds WhatsApp deep links and, when a local browser is
// available, drives instant sends through it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrAutomationUnavailable is reported when instant sending is requested in
// an environment without a local interactive browser (e.g. a server-hosted
// deployment). Callers must surface this instead of failing silently.
var ErrAutomationUnavailable = errors.New("chat automation requires a local interactive browser session")

// BuildLink returns a deep link that opens the chat application with the
// message pre-filled for the given recipient. The country code is prepended
// to the number; the text is percent-encoded.
func BuildLink(countryCode, number, text string) (string, error) {
	digits := sanitizeNumber(number)
	if digits == "" {
		return "", fmt.Errorf("phone number %q has no digits", number)
	}

	link := url.URL{
		Scheme: "https",
		Host:   "wa.me",
		Path:   "/" + countryCode + digits,
	}
	query := url.Values{"text": {text}}
	link.RawQuery = query.Encode()

	return link.String(), nil
}

// sanitizeNumber drops the separators people type into phone columns.
func sanitizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dispatcher sends chat messages by opening deep links in the local default
// browser. openURL and available are injectable for tests.
type Dispatcher struct {
	openURL   func(rawURL string) error
	available func() error
}

// NewDispatcher returns a Dispatcher bound to the local OS browser.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithLauncher(openBrowser, automationAvailable)
}

// NewDispatcherWithLauncher builds a Dispatcher with a custom link launcher
// and availability check.
func NewDispatcherWithLauncher(openURL func(rawURL string) error, available func() error) *Dispatcher {
	return &Dispatcher{
		openURL:   openURL,
		available: available,
	}
}

// Available reports whether instant sending can work in this environment.
func (d *Dispatcher) Available() error {
	return d.available()
}

// SendInstant opens the chat link for fullNumber (country code included) in
// the local browser and waits long enough for the page to load and dispatch
// the message. autoClose is the pause kept after sending so the page is not
// torn down mid-send.
func (d *Dispatcher) SendInstant(ctx context.Context, fullNumber, text string, wait, autoClose time.Duration) error {
	if err := d.available(); err != nil {
		return err
	}

	link, err := BuildLink("", fullNumber, text)
	if err != nil {
		return err
	}

	if err := d.openURL(link); err != nil {
		return fmt.Errorf("failed to open chat link: %w", err)
	}

	if err := sleep(ctx, wait); err != nil {
		return err
	}
	return sleep(ctx, autoClose)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
