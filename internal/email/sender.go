package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type Sender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

func (s *Sender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.From, s.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		content := a.Content
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}),
		)
	}

	return m
}

// Send delivers the message once over SMTP. SMTP replies are wrapped, not
// flattened, so callers can inspect the *textproto.Error code.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	sc, err := d.Dial()
	if err != nil {
		return fmt.Errorf("smtp dial error: %w", err)
	}
	defer sc.Close()

	if err := sc.Send(s.From, []string{msg.To}, s.build(msg)); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	return nil
}

// permanent reports whether the server rejected the message with a 5xx
// reply. Retrying those cannot succeed.
func permanent(err error) bool {
	var reply *textproto.Error
	return errors.As(err, &reply) && reply.Code >= 500
}

// SendWithRetry makes at most retries+1 attempts with exponential backoff.
// It stops early on a permanent SMTP rejection or when ctx is done.
func (s *Sender) SendWithRetry(
	ctx context.Context,
	msg Message,
	retries int,
) error {

	if retries < 0 {
		retries = 0
	}

	operation := func() error {
		err := s.Send(ctx, msg)
		if err != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(retries)))
}
