package ups

import (
	"context"
	"errors"

	"github.com/parcelworks/shipping-gateway/internal/currency"
	"github.com/parcelworks/shipping-gateway/internal/domain"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
	"github.com/parcelworks/shipping-gateway/pkg/metrics"
)

// Adapter implements the domain CarrierService port over the UPS XML API.
// It is the anti-corruption layer: domain types in, wire documents out.
type Adapter struct {
	gateway   *Gateway
	builder   RequestBuilder
	extractor Extractor
	labels    *LabelService
	catalog   domain.ServiceCatalog
	logger    *logging.Logger
}

var _ domain.CarrierService = (*Adapter)(nil)

// NewAdapter creates a UPS carrier adapter over the given transport
func NewAdapter(transport Transport, catalog domain.ServiceCatalog, currencies *currency.Registry, logger *logging.Logger, m *metrics.Metrics) *Adapter {
	gateway := NewGateway(transport, logger, m)
	return &Adapter{
		gateway:   gateway,
		builder:   NewRequestBuilder(currencies),
		extractor: NewExtractor(currencies),
		labels:    NewLabelService(gateway, currencies, logger),
		catalog:   catalog,
		logger:    logger.WithComponent("ups-adapter"),
	}
}

// GetRates prices the shipment. In silent shop mode, address and weight
// faults degrade to an empty quote list: shopping legitimately tries
// services that may not support the package. All other faults surface.
func (a *Adapter) GetRates(ctx context.Context, sh domain.ShipmentRequest, mode domain.RateMode, silent bool) ([]domain.RateQuote, error) {
	request, err := a.builder.BuildRateRequest(sh, mode)
	if err != nil {
		return nil, err
	}

	var response RatingServiceSelectionResponse
	if err := a.gateway.Execute(ctx, OpRate, request, &response); err != nil {
		var fault *domain.CarrierFault
		if silent && mode == domain.RateShop && errors.As(err, &fault) &&
			(fault.Category == domain.FaultInvalidAddress || fault.Category == domain.FaultWeightExceeded) {
			a.logger.WithFields(map[string]any{
				"shipmentId": sh.ShipmentID,
				"code":       fault.Code,
				"category":   string(fault.Category),
			}).WarnContext(ctx, "Rate shopping degraded to no quotes")
			return []domain.RateQuote{}, nil
		}
		return nil, err
	}

	return a.extractor.RateQuotes(&response, sh.Account.NegotiatedRates, a.catalog)
}

// IssueLabel runs the full confirm-then-accept purchase
func (a *Adapter) IssueLabel(ctx context.Context, sh domain.ShipmentRequest) (*domain.LabelResult, error) {
	return a.labels.IssueLabel(ctx, sh)
}

// ConfirmLabel reserves a purchase and returns its durable reservation
func (a *Adapter) ConfirmLabel(ctx context.Context, sh domain.ShipmentRequest) (*domain.Reservation, error) {
	confirmation, err := a.labels.Confirm(ctx, sh)
	if err != nil {
		return nil, err
	}
	return &domain.Reservation{
		Digest:       confirmation.Digest(),
		Token:        confirmation.Token(),
		Estimate:     confirmation.Estimate(),
		PackageCount: confirmation.packageCount,
	}, nil
}

// AcceptLabel settles a reservation by its digest
func (a *Adapter) AcceptLabel(ctx context.Context, digest string, packageCount int) (*domain.LabelResult, error) {
	return a.labels.AcceptDigest(ctx, digest, packageCount)
}

// VoidLabel releases a reservation by its confirmation token
func (a *Adapter) VoidLabel(ctx context.Context, token string) error {
	return a.labels.VoidToken(ctx, token)
}

// ValidateAddress returns ranked candidate corrections for the address
func (a *Adapter) ValidateAddress(ctx context.Context, account domain.CarrierAccount, address domain.Address) ([]domain.AddressSuggestion, error) {
	request := a.builder.BuildAddressValidation(address)

	var response AddressValidationResponse
	if err := a.gateway.Execute(ctx, OpAddressValidate, request, &response); err != nil {
		return nil, err
	}

	return a.extractor.AddressSuggestions(&response), nil
}
