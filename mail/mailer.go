/*
Package mail implements the SMTP notification gateway.

PURPOSE:
  Delivers workflow messages over SMTP. This is a thin transport layer:
  composition lives in the workflow package and failure policy lives in the
  workflow's severity table. Errors are returned, never swallowed here.

NO RETRY, NO TIMEOUT TUNING:
  Sends are synchronous blocking calls with transport defaults. A slow SMTP
  server delays the HTTP response; that trade-off is accepted.
*/
package mail

import (
	"context"
	"fmt"

	"github.com/warp/leave-workflow/workflow"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends workflow messages through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a Mailer for the given SMTP relay.
func New(host string, port int, user, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers one message. Implements workflow.Gateway.
func (m *Mailer) Send(_ context.Context, msg workflow.Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		gm.SetHeader("Cc", msg.CC...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Verify opens and closes an SMTP connection (diagnostic endpoint).
func (m *Mailer) Verify(_ context.Context) error {
	c, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return c.Close()
}
