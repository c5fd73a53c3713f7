package ups

import (
	"context"

	"github.com/parcelworks/shipping-gateway/internal/currency"
	"github.com/parcelworks/shipping-gateway/internal/domain"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
)

// LabelService runs the two-phase label purchase protocol: confirm reserves
// the purchase and returns a digest, accept settles it, void releases it.
type LabelService struct {
	gateway   *Gateway
	builder   RequestBuilder
	extractor Extractor
	logger    *logging.Logger
}

// NewLabelService creates a label service over the gateway
func NewLabelService(gateway *Gateway, currencies *currency.Registry, logger *logging.Logger) *LabelService {
	return &LabelService{
		gateway:   gateway,
		builder:   NewRequestBuilder(currencies),
		extractor: NewExtractor(currencies),
		logger:    logger.WithComponent("ups-labels"),
	}
}

// Confirmation is a live, unsettled label reservation. Exactly one of Accept
// or Void may be called, once; afterwards the confirmation is settled and
// both return ErrConfirmationSettled.
type Confirmation struct {
	service      *LabelService
	digest       string
	token        string
	estimate     domain.Money
	packageCount int
	settled      bool
}

// Estimate returns the carrier's quoted cost at confirmation time
func (c *Confirmation) Estimate() domain.Money {
	return c.estimate
}

// Digest returns the opaque digest that settles this reservation
func (c *Confirmation) Digest() string {
	return c.digest
}

// Token returns the confirmation token usable to void this reservation
func (c *Confirmation) Token() string {
	return c.token
}

// Accept settles the reservation and returns the issued labels. The digest
// is consumed before the wire call: a failed or ambiguous accept must not be
// replayed, since the carrier may have charged the account.
func (c *Confirmation) Accept(ctx context.Context) (*domain.LabelResult, error) {
	if c.settled {
		return nil, domain.ErrConfirmationSettled
	}
	c.settled = true
	return c.service.AcceptDigest(ctx, c.digest, c.packageCount)
}

// Void releases the reservation without purchase
func (c *Confirmation) Void(ctx context.Context) error {
	if c.settled {
		return domain.ErrConfirmationSettled
	}
	c.settled = true
	return c.service.VoidToken(ctx, c.token)
}

// Confirm opens a label purchase. Preconditions (service selected, at least
// one package, not already labeled) are checked before any carrier call.
func (s *LabelService) Confirm(ctx context.Context, sh domain.ShipmentRequest) (*Confirmation, error) {
	if sh.TrackingNumber != "" {
		return nil, domain.ErrAlreadyLabeled
	}

	request, err := s.builder.BuildShipmentConfirm(sh)
	if err != nil {
		return nil, err
	}

	var response ShipmentConfirmResponse
	if err := s.gateway.Execute(ctx, OpConfirm, request, &response); err != nil {
		return nil, err
	}

	estimate, err := s.extractor.ConfirmCost(&response, sh.Account.NegotiatedRates)
	if err != nil {
		return nil, err
	}

	s.logger.Event(ctx, "label.confirmed", map[string]any{
		"shipmentId": sh.ShipmentID,
		"estimate":   estimate.Amount.String(),
		"currency":   estimate.Currency,
	})

	return &Confirmation{
		service:      s,
		digest:       response.ShipmentDigest,
		token:        response.ShipmentIdentificationNumber,
		estimate:     estimate,
		packageCount: len(sh.Packages),
	}, nil
}

// AcceptDigest settles a confirmed purchase by its digest. Callers holding a
// Confirmation should use its Accept method; this entry point exists for
// durable callers that persist the digest across process boundaries.
func (s *LabelService) AcceptDigest(ctx context.Context, digest string, packageCount int) (*domain.LabelResult, error) {
	request := &ShipmentAcceptRequest{
		Request:        RequestHeader{RequestAction: "ShipAccept"},
		ShipmentDigest: digest,
	}

	var response ShipmentAcceptResponse
	if err := s.gateway.Execute(ctx, OpAccept, request, &response); err != nil {
		return nil, err
	}

	return s.extractor.AcceptResult(&response, packageCount)
}

// VoidToken releases a confirmed shipment by its confirmation token
func (s *LabelService) VoidToken(ctx context.Context, token string) error {
	request := &VoidShipmentRequest{
		Request:                      RequestHeader{RequestAction: "Void"},
		ShipmentIdentificationNumber: token,
	}

	var response VoidShipmentResponse
	return s.gateway.Execute(ctx, OpVoid, request, &response)
}

// IssueLabel runs confirm and accept back to back
func (s *LabelService) IssueLabel(ctx context.Context, sh domain.ShipmentRequest) (*domain.LabelResult, error) {
	confirmation, err := s.Confirm(ctx, sh)
	if err != nil {
		return nil, err
	}
	return confirmation.Accept(ctx)
}
