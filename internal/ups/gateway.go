package ups

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/parcelworks/shipping-gateway/internal/domain"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
	"github.com/parcelworks/shipping-gateway/pkg/metrics"
)

// Operation identifies one carrier API call
type Operation string

const (
	OpRate            Operation = "rate"
	OpConfirm         Operation = "confirm"
	OpAccept          Operation = "accept"
	OpVoid            Operation = "void"
	OpAddressValidate Operation = "address_validate"
)

// Transport exchanges one serialized request document for one serialized
// response document. Implementations own authentication, endpoints and
// resilience; errors they return indicate the exchange itself failed.
type Transport interface {
	Send(ctx context.Context, op Operation, request []byte) ([]byte, error)
}

// Gateway executes carrier calls: it serializes the request document, sends
// it through the transport, deserializes the reply and surfaces
// carrier-reported errors as classified faults.
type Gateway struct {
	transport Transport
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewGateway creates a gateway over the given transport. Metrics may be nil.
func NewGateway(transport Transport, logger *logging.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		transport: transport,
		logger:    logger.WithComponent("ups-gateway"),
		metrics:   m,
	}
}

// Execute runs one carrier call. A non-success response status is returned
// as a classified CarrierFault; exchange failures as TransportError.
func (g *Gateway) Execute(ctx context.Context, op Operation, request any, response responseDocument) error {
	body, err := xml.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}
	g.logger.CarrierDocument(ctx, string(op), "request", body)

	start := time.Now()
	raw, err := g.transport.Send(ctx, op, body)
	duration := time.Since(start)

	if g.metrics != nil {
		g.metrics.CarrierRequestDuration.WithLabelValues(string(op)).Observe(duration.Seconds())
	}

	if err != nil {
		g.observe(op, "transport_error")
		g.logger.CarrierCall(ctx, string(op), duration, false)
		return &domain.TransportError{Op: string(op), Err: err}
	}
	g.logger.CarrierDocument(ctx, string(op), "response", raw)

	if err := xml.Unmarshal(raw, response); err != nil {
		g.observe(op, "malformed_response")
		return &domain.TransportError{Op: string(op), Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	if status := response.Status(); !status.OK() {
		fault := Classify(status.Fault())
		g.observe(op, "fault")
		g.logger.CarrierCall(ctx, string(op), duration, false)
		return fault
	}

	g.observe(op, "success")
	g.logger.CarrierCall(ctx, string(op), duration, true)
	return nil
}

func (g *Gateway) observe(op Operation, outcome string) {
	if g.metrics != nil {
		g.metrics.CarrierRequestsTotal.WithLabelValues(string(op), outcome).Inc()
	}
}
