package pagleve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const probeTimeout = 10 * time.Second

var (
	probePaths = []string{"/v1/charges", "/charges", "/api/v1/charges"}

	probeAuthSchemes = []string{"basic", "bearer", "x-api-key"}
)

// ProbeInput configures one diagnostic sweep of the gateway.
type ProbeInput struct {
	APIKey   string
	Secret   string
	BaseURLs []string
}

// ProbeAttempt records a single base/auth/path combination that was tried.
type ProbeAttempt struct {
	BaseURL    string `json:"base_url"`
	AuthScheme string `json:"auth_scheme"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ProbeResult is the outcome of the sweep. When Success is true the Working*
// fields name the first combination that answered 2xx and ResponseBody holds
// a truncated copy of its payload.
type ProbeResult struct {
	Success        bool           `json:"success"`
	WorkingBaseURL string         `json:"working_base_url,omitempty"`
	WorkingAuth    string         `json:"working_auth,omitempty"`
	WorkingPath    string         `json:"working_path,omitempty"`
	StatusCode     int            `json:"status_code,omitempty"`
	ResponseBody   string         `json:"response_body,omitempty"`
	Attempts       []ProbeAttempt `json:"attempts"`
	Err            error          `json:"-"`
}

// Probe tries every base URL, auth scheme, and path combination against the
// gateway with a minimal test charge and reports the first one that answers
// 2xx. It exists so an operator can discover a working configuration; it is
// never part of the checkout path.
func (c *Client) Probe(ctx context.Context, input ProbeInput) ProbeResult {
	creds := Credentials{APIKey: input.APIKey, Secret: input.Secret}.withFallback(c.cfg)

	bases := input.BaseURLs
	if len(bases) == 0 {
		bases = []string{creds.BaseURL}
	}

	body, _ := json.Marshal(chargeRequest{
		Amount:        0.01,
		Description:   "Teste de conectividade",
		ExternalID:    fmt.Sprintf("probe-%d", c.now().UnixMilli()),
		PaymentMethod: "pix",
		WebhookURL:    c.webhookURL,
		ExpiresIn:     int(PixExpiry.Seconds()),
	})

	client := &http.Client{Timeout: probeTimeout}
	result := ProbeResult{}
	var errs error

	for _, base := range bases {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base == "" {
			continue
		}
		for _, scheme := range probeAuthSchemes {
			for _, path := range probePaths {
				attempt := ProbeAttempt{BaseURL: base, AuthScheme: scheme, Path: path}
				status, raw, err := c.probeOnce(ctx, client, base+path, scheme, creds, body)
				attempt.StatusCode = status
				if err != nil {
					attempt.Error = err.Error()
					errs = multierr.Append(errs, fmt.Errorf("%s %s [%s]: %w", scheme, base, path, err))
					result.Attempts = append(result.Attempts, attempt)
					continue
				}
				result.Attempts = append(result.Attempts, attempt)
				if status >= 200 && status <= 299 {
					result.Success = true
					result.WorkingBaseURL = base
					result.WorkingAuth = scheme
					result.WorkingPath = path
					result.StatusCode = status
					result.ResponseBody = truncate(raw, 500)
					return result
				}
				errs = multierr.Append(errs, fmt.Errorf("%s %s [%s]: status %d", scheme, base, path, status))
			}
		}
	}

	result.Err = errs
	return result
}

func (c *Client) probeOnce(ctx context.Context, client *http.Client, url, scheme string, creds Credentials, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	switch scheme {
	case "basic":
		req.Header.Set("Authorization", basicAuth(creds.APIKey, creds.Secret))
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	case "x-api-key":
		req.Header.Set("X-Api-Key", creds.APIKey)
		req.Header.Set("X-Api-Secret", creds.Secret)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(raw), nil
}
