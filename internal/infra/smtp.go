package infra

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/saadmalik-333/business-insight-pos/internal/config"
	"github.com/saadmalik-333/business-insight-pos/internal/dto"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for operational notifications.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	to       []string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		to:       cfg.AlertRecipients(),
	}
}

// Enabled reports whether an SMTP host and at least one recipient are configured.
func (m *Mailer) Enabled() bool {
	return m.host != "" && len(m.to) > 0
}

// SendStockAlert emails the configured recipients about a product at or below
// its minimum stock level.
func (m *Mailer) SendStockAlert(alert dto.StockAlertPayload) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = m.to
	e.Subject = fmt.Sprintf("Low stock: %s (%d left)", alert.Name, alert.StockQuantity)
	e.Text = []byte(stockAlertBody(alert))

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send stock alert: %w", err)
	}
	return nil
}

func stockAlertBody(a dto.StockAlertPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product:   %s\n", a.Name)
	if a.SKU != "" {
		fmt.Fprintf(&b, "SKU:       %s\n", a.SKU)
	}
	fmt.Fprintf(&b, "In stock:  %d\n", a.StockQuantity)
	fmt.Fprintf(&b, "Minimum:   %d\n", a.MinStockLevel)
	if a.StockQuantity <= 0 {
		b.WriteString("\nThe product is out of stock and cannot be sold until it is restocked.\n")
	} else {
		b.WriteString("\nPlease reorder soon.\n")
	}
	return b.String()
}
