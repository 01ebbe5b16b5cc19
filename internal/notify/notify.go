package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"

	"watchshop/internal/config"
	"watchshop/internal/models"
)

// Notifier tells a customer about a settled payment.
type Notifier interface {
	SendReceipt(ctx context.Context, record *models.PaymentRecord) error
}

// Nop is used when no SMTP host is configured.
type Nop struct{}

func (Nop) SendReceipt(context.Context, *models.PaymentRecord) error { return nil }

// sender is the part of *mail.Client the Mailer uses.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends HTML receipts over SMTP.
type Mailer struct {
	client sender
	from   string
	logger *slog.Logger
}

// New returns a Mailer, or Nop when SMTP is not configured.
func New(cfg *config.Config, logger *slog.Logger) (Notifier, error) {
	if cfg.SMTP.Host == "" {
		logger.Info("SMTP not configured, receipts disabled")
		return Nop{}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTP.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}
	return &Mailer{client: client, from: cfg.SMTP.From, logger: logger}, nil
}

func (m *Mailer) SendReceipt(ctx context.Context, record *models.PaymentRecord) error {
	msg, err := m.receipt(record)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "send receipt to %s", record.Email)
	}
	m.logger.Info("receipt sent", slog.String("email", record.Email), slog.String("transaction_id", record.TransactionID))
	return nil
}

func (m *Mailer) receipt(record *models.PaymentRecord) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, errors.Wrap(err, "receipt sender")
	}
	if err := msg.To(record.Email); err != nil {
		return nil, errors.Wrap(err, "receipt recipient")
	}
	msg.Subject(fmt.Sprintf("Your watch shop order %s", record.TransactionID))

	body, err := renderReceipt(record)
	if err != nil {
		return nil, err
	}
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif;">
	<h2>Thank you for your order</h2>
	<p>Transaction: <strong>{{.TransactionID}}</strong></p>
	{{if .ItemNames}}<p>Items: {{join .ItemNames ", "}}</p>{{end}}
	<p>Quantity: {{.Quantity}}</p>
	<p>Total: ${{printf "%.2f" .Price}}</p>
	<p>Status: {{.Status}}</p>
</body>
</html>`))

func renderReceipt(record *models.PaymentRecord) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, record); err != nil {
		return "", errors.Wrap(err, "render receipt")
	}
	return buf.String(), nil
}
