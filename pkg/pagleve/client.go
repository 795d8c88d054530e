package pagleve

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lucasferri/distribuidora-backend/pkg/config"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/metrics"
)

const chargePath = "/v1/charges"

// Credentials are the gateway credentials resolved for one generation call.
// Site settings take precedence; blanks fall back to process configuration.
type Credentials struct {
	APIKey  string
	Secret  string
	BaseURL string
}

func (c Credentials) withFallback(cfg config.PagLeveConfig) Credentials {
	out := c
	if strings.TrimSpace(out.APIKey) == "" {
		out.APIKey = cfg.APIKey
	}
	if strings.TrimSpace(out.Secret) == "" {
		out.Secret = cfg.Secret
	}
	if strings.TrimSpace(out.BaseURL) == "" {
		out.BaseURL = cfg.BaseURL
	}
	return out
}

// Client talks to the PagLeve charge API. Its one hard rule: GeneratePix
// never fails. Missing credentials, HTTP errors, network errors, and even
// panics all degrade to a locally synthesized placeholder payload so
// checkout is never blocked by the payment provider.
type Client struct {
	httpClient *http.Client
	cfg        config.PagLeveConfig
	webhookURL string
	logger     *logger.Logger
	metrics    *metrics.PaymentMetrics
	now        func() time.Time
}

// NewClient builds the gateway adapter. publicURL is the externally
// reachable base used to register the webhook callback.
func NewClient(cfg config.PagLeveConfig, publicURL string, logg *logger.Logger, m *metrics.PaymentMetrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		webhookURL: strings.TrimRight(publicURL, "/") + "/api/webhook/pagleve",
		logger:     logg,
		metrics:    m,
		now:        time.Now,
	}
}

type chargeRequest struct {
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	ExternalID    string  `json:"external_id"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	PaymentMethod string  `json:"payment_method"`
	WebhookURL    string  `json:"webhook_url"`
	ExpiresIn     int     `json:"expires_in"`
}

// GeneratePix obtains a PIX payload for the order, degrading instead of
// failing. Inspect PixResult.Source to distinguish live gateway output
// from synthesized placeholders.
func (c *Client) GeneratePix(ctx context.Context, order PixOrder, creds Credentials) (result PixResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = c.degrade(order, enums.PixSourceEmergency, fmt.Errorf("panic: %v", rec))
		}
		c.metrics.IncPixGenerated(result.Source.String())
		if c.logger != nil {
			lctx := c.logger.WithFields(ctx, map[string]any{
				"order_ref":  order.OrderRef,
				"pix_source": result.Source.String(),
			})
			if result.Err != nil {
				c.logger.Warn(c.logger.WithField(lctx, "degrade_reason", result.Err.Error()), "pix.generated.degraded")
			} else {
				c.logger.Info(lctx, "pix.generated")
			}
		}
	}()

	creds = creds.withFallback(c.cfg)
	if strings.TrimSpace(creds.APIKey) == "" || strings.TrimSpace(creds.Secret) == "" {
		return c.degrade(order, enums.PixSourceMock, nil)
	}

	amount, _ := order.FinalAmount.Float64()
	body := chargeRequest{
		Amount:        amount,
		Description:   fmt.Sprintf("Pedido #%s - Distribuidora de Bebidas", order.OrderRef),
		ExternalID:    order.OrderRef,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		CustomerEmail: order.CustomerEmail,
		PaymentMethod: "pix",
		WebhookURL:    c.webhookURL,
		ExpiresIn:     int(PixExpiry.Seconds()),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return c.degrade(order, enums.PixSourceFallback, fmt.Errorf("encode charge request: %w", err))
	}

	endpoint := strings.TrimRight(creds.BaseURL, "/") + chargePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return c.degrade(order, enums.PixSourceFallback, fmt.Errorf("build charge request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", basicAuth(creds.APIKey, creds.Secret))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.degrade(order, enums.PixSourceFallback, fmt.Errorf("charge request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.degrade(order, enums.PixSourceFallback, fmt.Errorf("read charge response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.degrade(order, enums.PixSourceFallback,
			fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	return c.parseChargeResponse(order, raw)
}

func (c *Client) parseChargeResponse(order PixOrder, raw []byte) PixResult {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Some deployments answer with the bare PIX code as text.
		if text := strings.TrimSpace(string(raw)); looksLikePixText(text) {
			return PixResult{
				Source:       enums.PixSourceAutomatic,
				PixCopyPaste: &text,
				PaymentID:    order.OrderRef,
				ExpiresAt:    c.now().Add(PixExpiry),
				AuthMethod:   "basic (text response)",
			}
		}
		return c.degrade(order, enums.PixSourceFallback, fmt.Errorf("decode charge response: %w", err))
	}

	fields, shape, ok := extractPixFields(payload)
	if !ok {
		return c.degrade(order, enums.PixSourceFallback, fmt.Errorf("no pix fields in charge response"))
	}

	result := PixResult{
		Source:     enums.PixSourceAutomatic,
		PaymentID:  fields.PaymentID,
		ExpiresAt:  c.now().Add(PixExpiry),
		AuthMethod: fmt.Sprintf("basic (%s shape)", shape),
	}
	if fields.PaymentID == "" {
		result.PaymentID = order.OrderRef
	}
	if fields.QRCodeURL != "" {
		url := fields.QRCodeURL
		result.QRCodeURL = &url
	}
	if fields.PixCopyPaste != "" {
		code := fields.PixCopyPaste
		result.PixCopyPaste = &code
	}
	return result
}

// degrade builds the placeholder result shared by the mock, fallback, and
// emergency paths.
func (c *Client) degrade(order PixOrder, source enums.PixSource, cause error) PixResult {
	now := c.now()
	code := SynthesizeCode(now, order.OrderRef, order.FinalAmount)
	return PixResult{
		Source:       source,
		PixCopyPaste: &code,
		PaymentID:    fmt.Sprintf("%s-%d", source, now.UnixMilli()),
		ExpiresAt:    now.Add(PixExpiry),
		AuthMethod:   "local (" + source.String() + ")",
		Err:          cause,
	}
}

func basicAuth(apiKey, secret string) string {
	token := base64.StdEncoding.EncodeToString([]byte(apiKey + ":" + secret))
	return "Basic " + token
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
