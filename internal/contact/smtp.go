package contact

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPRelay mails each submission to a fixed inbox.
type SMTPRelay struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	send SendMailFunc
}

// NewSMTPRelay returns a relay using smtp.SendMail.
func NewSMTPRelay(host, port, user, pass, to string) *SMTPRelay {
	return &SMTPRelay{Host: host, Port: port, User: user, Pass: pass, To: to, send: smtp.SendMail}
}

// WithSender swaps the transport. Tests use it to capture messages.
func (r *SMTPRelay) WithSender(fn SendMailFunc) *SMTPRelay {
	r.send = fn
	return r
}

// Send composes and sends the message. ctx is checked before dialing;
// net/smtp itself has no cancellation.
func (r *SMTPRelay) Send(ctx context.Context, f Form) error {
	if r.User == "" || r.Pass == "" || r.To == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	auth := smtp.PlainAuth("", r.User, r.Pass, r.Host)
	if err := r.send(net.JoinHostPort(r.Host, r.Port), auth, r.User, []string{r.To}, r.Message(f)); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// Message renders the RFC 5322 message for f. Header text supplied by the
// visitor is RFC 2047 encoded; the body is sent as 8-bit UTF-8.
func (r *SMTPRelay) Message(f Form) []byte {
	var b strings.Builder
	b.WriteString("To: " + r.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", "Portfolio Contact: "+headerSafe(f.Name)) + "\r\n")
	b.WriteString("From: " + r.User + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(f.Email) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString("New contact form submission from your portfolio:\r\n\r\n")
	b.WriteString("Name: " + f.Name + "\r\n")
	b.WriteString("Email: " + f.Email + "\r\n")
	b.WriteString("Message:\r\n" + f.Message + "\r\n\r\n")
	b.WriteString("---\r\nSent from your portfolio contact form\r\n")
	return []byte(b.String())
}

// headerSafe strips line breaks so a visitor cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
