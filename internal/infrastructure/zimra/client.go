package zimra

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/retailcore/pos-api/internal/application/fiscal"
	"github.com/retailcore/pos-api/pkg/config"
)

const (
	// EnvTest is the FDMS sandbox environment identifier.
	EnvTest = "test"
	// EnvProd is the FDMS production environment identifier.
	EnvProd = "prod"

	apiURLTest = "https://fdmsapitest.zimra.co.zw/api/v1"
	apiURLProd = "https://fdmsapi.zimra.co.zw/api/v1"

	apiKeyHeader = "DeviceOperatorKey"

	maxResponseBytes = 1 << 20
)

var _ fiscal.Submitter = (*Client)(nil)

// Client talks JSON over HTTPS to the ZIMRA FDMS gateway. It implements
// fiscal.Submitter; deployments running permanently in non-FDMS mode wire a
// nil Submitter instead.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds the FDMS client from configuration. BaseURL overrides the
// environment-derived endpoint when set. When cert paths are present the
// client authenticates with the device certificate (mTLS), as FDMS requires
// in production.
func New(cfg config.ZIMRAConfig) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch cfg.Environment {
		case EnvProd:
			baseURL = apiURLProd
		case EnvTest:
			baseURL = apiURLTest
		default:
			return nil, fmt.Errorf("zimra: unknown environment %q (use %q or %q)", cfg.Environment, EnvTest, EnvProd)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.CertPath != "" && cfg.CertKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.CertKeyPath)
		if err != nil {
			return nil, fmt.Errorf("zimra: load device certificate: %w", err)
		}
		transport.TLSClientConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		// FDMS can take several seconds under load.
		httpClient: &http.Client{Timeout: 60 * time.Second, Transport: transport},
	}, nil
}

type submitReceiptResponse struct {
	ReceiptID        string   `json:"receiptID"`
	ServerSignature  string   `json:"serverSignature"`
	Validated        bool     `json:"validated"`
	ValidationErrors []string `json:"validationErrors"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmitReceipt posts one receipt payload to FDMS.
func (c *Client) SubmitReceipt(ctx context.Context, p *fiscal.ReceiptPayload) (*fiscal.SubmitResult, error) {
	raw, err := c.post(ctx, "/receipts", p)
	if err != nil {
		return nil, err
	}

	var resp submitReceiptResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("zimra: decode receipt response: %w", err)
	}
	return &fiscal.SubmitResult{
		ReceiptID: resp.ReceiptID,
		Signature: resp.ServerSignature,
		Confirmed: resp.Validated,
		Errors:    strings.Join(resp.ValidationErrors, "; "),
	}, nil
}

// RegisterDevice announces a newly provisioned virtual device to FDMS.
func (c *Client) RegisterDevice(ctx context.Context, tin, deviceID, serialNo string) error {
	body := map[string]string{
		"taxPayerTIN":  tin,
		"deviceID":     deviceID,
		"deviceSerial": serialNo,
	}
	_, err := c.post(ctx, "/devices/register", body)
	return err
}

// post runs one JSON round trip. Transport failures are wrapped with a
// "network" prefix so callers can tell them apart from FDMS rejections.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("zimra: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("zimra: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("zimra: network timeout: %w", ctx.Err())
		}
		return nil, fmt.Errorf("zimra: network call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("zimra: network read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusUnprocessableEntity, resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("zimra: validation rejected: %s", apiErrorMessage(raw))
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("zimra: gateway refused credentials: %s", apiErrorMessage(raw))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("zimra: network gateway error %d: %s", resp.StatusCode, apiErrorMessage(raw))
	default:
		return nil, fmt.Errorf("zimra: unexpected status %d: %s", resp.StatusCode, apiErrorMessage(raw))
	}
}

func apiErrorMessage(raw []byte) string {
	var e apiError
	if err := json.Unmarshal(raw, &e); err != nil || e.Message == "" {
		return string(raw)
	}
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
