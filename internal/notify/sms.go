package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"perfume-backend/internal/models"
)

// SMSSender posts order alerts to an HTTP SMS gateway. Without a gateway URL
// the message is only logged.
type SMSSender struct {
	client *http.Client
	apiURL string
	apiKey string
	phone  string
	logger *slog.Logger
}

func NewSMSSender(apiURL, apiKey, phone string, logger *slog.Logger) *SMSSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMSSender{
		client: cleanhttp.DefaultClient(),
		apiURL: apiURL,
		apiKey: apiKey,
		phone:  phone,
		logger: logger.With("component", "sms"),
	}
}

func (s *SMSSender) HandleOrderCreated(ctx context.Context, order models.Order) {
	s.SendSMS(ctx, s.phone, orderMessage(order))
}

func orderMessage(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "طلب جديد - %s\n", shopName)
	fmt.Fprintf(&b, "رقم الطلب: #%s\n", order.ID.Hex())
	fmt.Fprintf(&b, "العميل: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "الهاتف: %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "البريد: %s\n", order.CustomerEmail)
	fmt.Fprintf(&b, "المبلغ الإجمالي: %s %s\n", order.TotalAmount.String(), currency)
	fmt.Fprintf(&b, "عدد المنتجات: %d", len(order.Items))
	return b.String()
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendSMS never returns an error; failures are logged.
func (s *SMSSender) SendSMS(ctx context.Context, to, message string) {
	log := s.logger.With("to", to)
	if s.apiURL == "" {
		log.Debug("sms gateway not configured", "message", message)
		return
	}
	if err := s.post(ctx, to, message); err != nil {
		log.Error("send sms", "error", err)
		return
	}
	log.Info("sms sent")
}

func (s *SMSSender) post(ctx context.Context, to, message string) error {
	payload, err := json.Marshal(smsRequest{To: to, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned %s", resp.Status)
	}
	return nil
}
