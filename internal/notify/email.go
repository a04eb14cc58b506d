package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"math"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"perfume-backend/internal/models"
)

// MailClient is the part of the SendGrid client the mailer uses.
type MailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends order confirmations and stock alerts. Every failure is logged
// and swallowed: an order is never affected by a mail problem.
type Mailer struct {
	client MailClient
	from   string
	admin  string
	logger *slog.Logger
}

func NewMailer(client MailClient, from, admin string, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		client: client,
		from:   from,
		admin:  admin,
		logger: logger.With("component", "mailer"),
	}
}

func NewSendGridMailer(apiKey, from, admin string, logger *slog.Logger) *Mailer {
	return NewMailer(sendgrid.NewSendClient(apiKey), from, admin, logger)
}

func (m *Mailer) HandleOrderCreated(ctx context.Context, order models.Order) {
	m.SendOrderConfirmation(ctx, order)
}

func (m *Mailer) HandleLowStock(ctx context.Context, product models.Product) {
	m.SendLowStockAlert(ctx, product)
}

func (m *Mailer) configured() bool {
	if m.from == "" {
		m.logger.Error("mail from address is not configured, set MAIL_FROM")
		return false
	}
	if m.admin == "" {
		m.logger.Error("admin email address is not configured, set ADMIN_EMAIL")
		return false
	}
	return true
}

// SendOrderConfirmation mails the customer (when an address was given) and
// the admin. Each recipient gets the HTML message first and a plain-text one
// if that fails; the four attempts are independent of each other.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order models.Order) {
	if !m.configured() {
		return
	}
	orderID := order.ID.Hex()

	if order.CustomerEmail == "" {
		m.logger.Debug("no customer email, skipping confirmation", "orderId", orderID)
	} else {
		subject := "تأكيد الطلب - Order #" + orderID
		m.sendWithFallback(ctx, "customer", orderID, order.CustomerEmail, subject,
			func() (string, error) { return render(customerTemplate, order) },
			customerPlainText(order),
		)
	}

	subject := "طلب جديد - Order #" + orderID
	if !m.sendWithFallback(ctx, "admin", orderID, m.admin, subject,
		func() (string, error) { return render(adminTemplate, order) },
		adminPlainText(order),
	) {
		m.logger.Warn("order created but admin notification failed", "orderId", orderID)
	}
}

func (m *Mailer) sendWithFallback(ctx context.Context, audience, orderID, to, subject string, rich func() (string, error), plain string) bool {
	log := m.logger.With("audience", audience, "orderId", orderID, "to", to)

	body, err := rich()
	if err == nil {
		err = m.send(ctx, to, subject, mail.NewContent("text/html", body))
	}
	if err == nil {
		log.Info("order email sent")
		return true
	}
	log.Error("order email failed, retrying as plain text", "error", err)

	if err := m.send(ctx, to, subject, mail.NewContent("text/plain", plain)); err != nil {
		log.Error("plain order email failed", "error", err)
		return false
	}
	log.Info("plain order email sent")
	return true
}

// SendLowStockAlert tells the admin a product is running out.
func (m *Mailer) SendLowStockAlert(ctx context.Context, product models.Product) {
	if !m.configured() {
		return
	}
	log := m.logger.With("productId", product.ID.Hex())

	body, err := render(lowStockTemplate, buildLowStockView(product))
	if err != nil {
		log.Error("render low stock alert", "error", err)
		return
	}
	subject := "تنبيه: نقص في المخزون - " + product.Name
	if err := m.send(ctx, m.admin, subject, mail.NewContent("text/html", body)); err != nil {
		log.Error("low stock alert failed", "error", err)
		return
	}
	log.Info("low stock alert sent", "to", m.admin)
}

func buildLowStockView(product models.Product) lowStockView {
	view := lowStockView{Product: product}
	if !product.UsesVariantStock() {
		view.TotalStock = max(*product.Stock, 0)
		view.MinStock = view.TotalStock
		return view
	}

	minStock := math.MaxInt
	for i, detail := range product.ImageDetails {
		if detail.Quantity == nil || *detail.Quantity <= 0 {
			continue
		}
		q := *detail.Quantity
		view.TotalStock += q
		minStock = min(minStock, q)
		if q < models.LowStockThreshold {
			view.LowImages = append(view.LowImages, lowImage{Position: i + 1, Quantity: q})
		}
	}
	if minStock != math.MaxInt {
		view.MinStock = minStock
	}
	return view
}

func (m *Mailer) send(ctx context.Context, to, subject string, content *mail.Content) error {
	message := mail.NewV3MailInit(
		mail.NewEmail(shopName, m.from),
		subject,
		mail.NewEmail("", to),
		content,
	)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func customerPlainText(order models.Order) string {
	return fmt.Sprintf("شكراً لك على طلبك!\n\nرقم الطلب: #%s\nالتاريخ: %s\nالإجمالي: %s %s\n\nسنقوم بالاتصال بك قريباً لتأكيد الطلب.\nشكراً لاختيارك %s",
		order.ID.Hex(),
		order.CreatedAt.Format(timeLayout),
		formatAmount(order.TotalAmount), currency,
		shopName,
	)
}

func adminPlainText(order models.Order) string {
	return fmt.Sprintf("تم استلام طلب جديد\n\nرقم الطلب: %s\nالعميل: %s\nالبريد: %s\nالهاتف: %s\nالإجمالي: %s %s",
		order.ID.Hex(),
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		formatAmount(order.TotalAmount), currency,
	)
}
