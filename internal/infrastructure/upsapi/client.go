package upsapi

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/parcelworks/shipping-gateway/internal/domain"
	"github.com/parcelworks/shipping-gateway/internal/ups"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
	"github.com/parcelworks/shipping-gateway/pkg/metrics"
)

const (
	productionHost = "https://onlinetools.ups.com/ups.app/xml"
	sandboxHost    = "https://wwwcie.ups.com/ups.app/xml"
)

var operationPaths = map[ups.Operation]string{
	ups.OpRate:            "/Rate",
	ups.OpConfirm:         "/ShipConfirm",
	ups.OpAccept:          "/ShipAccept",
	ups.OpVoid:            "/Void",
	ups.OpAddressValidate: "/AV",
}

// Config holds UPS API client configuration
type Config struct {
	Account domain.CarrierAccount
	Timeout time.Duration

	// Circuit breaker settings
	MaxFailures uint32
	OpenTimeout time.Duration
}

// DefaultConfig returns sensible client defaults for the given account
func DefaultConfig(account domain.CarrierAccount) *Config {
	return &Config{
		Account:     account,
		Timeout:     30 * time.Second,
		MaxFailures: 5,
		OpenTimeout: 60 * time.Second,
	}
}

type accessRequest struct {
	XMLName             xml.Name `xml:"AccessRequest"`
	AccessLicenseNumber string   `xml:"AccessLicenseNumber"`
	UserId              string   `xml:"UserId"`
	Password            string   `xml:"Password"`
}

// Client is the HTTP transport for the UPS XML services. Every call sends
// the access document followed by the request document, each with its own
// XML declaration, as the endpoints require.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	host       string
	access     []byte
	logger     *logging.Logger
}

var _ ups.Transport = (*Client)(nil)

// NewClient creates a UPS API client. Metrics may be nil.
func NewClient(config *Config, logger *logging.Logger, m *metrics.Metrics) (*Client, error) {
	if err := config.Account.Validate(); err != nil {
		return nil, err
	}

	access, err := xml.Marshal(accessRequest{
		AccessLicenseNumber: config.Account.LicenseKey,
		UserId:              config.Account.UserID,
		Password:            config.Account.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal access request: %w", err)
	}

	host := productionHost
	if config.Account.Sandbox {
		host = sandboxHost
	}

	settings := gobreaker.Settings{
		Name:        "ups-api",
		MaxRequests: 3,
		Interval:    2 * time.Minute,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
			if m != nil {
				m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		host:       host,
		access:     access,
		logger:     logger.WithComponent("ups-client"),
	}, nil
}

// Send exchanges one request document for one response document
func (c *Client) Send(ctx context.Context, op ups.Operation, request []byte) ([]byte, error) {
	path, ok := operationPaths[op]
	if !ok {
		return nil, fmt.Errorf("unknown carrier operation %q", op)
	}

	var body bytes.Buffer
	body.WriteString(xml.Header)
	body.Write(c.access)
	body.WriteString(xml.Header)
	body.Write(request)

	result, err := c.breaker.Execute(func() (any, error) {
		return c.post(ctx, c.host+path, body.Bytes())
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("carrier endpoint returned HTTP %d", resp.StatusCode)
	}
	return payload, nil
}
