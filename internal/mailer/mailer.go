// Package mailer provides the outbound mail transport used by the
// dispatch workflow. The core consumes the Mailer interface; the SMTP
// implementation lives in smtp.go.
package mailer

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
)

// Message is a single outbound plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer sends email messages. Implementations must respect the context
// deadline: a send that cannot complete in time returns the context's
// error rather than blocking.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// IsTimeout reports whether a send failed because a deadline elapsed,
// whichever layer enforced it: the context, a connection read/write
// deadline, or the transport itself.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// SplitRecipients turns a stored contact address column, which may hold a
// comma-separated list, into individual addresses.
func SplitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
