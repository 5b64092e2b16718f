package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/clickmobile/clickmobile-backend/config"
	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func New(cfg *config.SMTPConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// SendOrderConfirmation mails the order summary to the customer.
func (m *Mailer) SendOrderConfirmation(toEmail string, order *model.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", order.Code)

	var body strings.Builder
	fmt.Fprintf(&body, "Thank you for your order!\r\n\r\n")
	fmt.Fprintf(&body, "Order code: %s\r\n", order.Code)
	for _, item := range order.OrderItems {
		line := fmt.Sprintf("- %s (%s", item.Name, item.Color)
		if item.SelectionSnapshot != "" {
			line += ", " + item.SelectionSnapshot
		}
		fmt.Fprintf(&body, "%s) x%d @ %d\r\n", line, item.Quantity, item.Price)
	}
	fmt.Fprintf(&body, "\r\nTotal: %d\r\n", order.TotalAmount)
	if order.ShippingAddress != "" {
		fmt.Fprintf(&body, "Shipping to: %s\r\n", order.ShippingAddress)
	}

	if err := m.send(toEmail, subject, body.String()); err != nil {
		logger.Error("Failed to send order confirmation", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Info("Order confirmation sent", map[string]interface{}{
		"order_id": order.ID,
	})
	return nil
}

func (m *Mailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
