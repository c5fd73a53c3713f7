package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parcelworks/shipping-gateway/internal/domain"
	"github.com/parcelworks/shipping-gateway/internal/worldship"
	apperrors "github.com/parcelworks/shipping-gateway/pkg/errors"
	"github.com/parcelworks/shipping-gateway/pkg/kafka"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
	"github.com/parcelworks/shipping-gateway/pkg/metrics"
)

// ShippingService orchestrates shipment use cases over the carrier port,
// the record repository and the event producer.
type ShippingService struct {
	repo     domain.ShipmentRecordRepository
	carrier  domain.CarrierService
	exporter worldship.Exporter
	account  domain.CarrierAccount
	catalog  domain.ServiceCatalog
	producer *kafka.Producer
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewShippingService creates the shipping application service. Producer and
// metrics may be nil.
func NewShippingService(
	repo domain.ShipmentRecordRepository,
	carrier domain.CarrierService,
	account domain.CarrierAccount,
	catalog domain.ServiceCatalog,
	producer *kafka.Producer,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ShippingService {
	return &ShippingService{
		repo:     repo,
		carrier:  carrier,
		exporter: worldship.NewExporter(),
		account:  account,
		catalog:  catalog,
		producer: producer,
		metrics:  m,
		logger:   logger.WithComponent("shipping-service"),
	}
}

// CreateShipment creates a new shipment record
func (s *ShippingService) CreateShipment(ctx context.Context, cmd CreateShipmentCommand) (*ShipmentDTO, error) {
	method := domain.MethodAPI
	if cmd.Method != "" {
		switch domain.CarrierMethod(cmd.Method) {
		case domain.MethodAPI, domain.MethodWorldShip:
			method = domain.CarrierMethod(cmd.Method)
		default:
			return nil, apperrors.ErrValidation(fmt.Sprintf("unknown carrier method %q", cmd.Method))
		}
	}

	record := domain.NewShipmentRecord(uuid.New().String(), cmd.OrderID, method)
	record.Shipper = toDomainAddress(cmd.Shipper)
	record.Origin = toDomainAddress(cmd.Origin)
	record.Destination = toDomainAddress(cmd.Destination)
	record.Currency = cmd.Currency
	record.SaturdayDelivery = cmd.SaturdayDelivery

	if cmd.ServiceCode != "" {
		service, ok := s.catalog.Resolve(cmd.ServiceCode)
		if !ok {
			return nil, apperrors.ErrValidation(fmt.Sprintf("unknown service code %q", cmd.ServiceCode))
		}
		record.Service = &service
	}

	for i, pkg := range cmd.Packages {
		packaging := pkg.PackagingType
		if packaging == "" {
			packaging = domain.DefaultPackagingType
		}
		if !domain.ValidPackagingType(packaging) {
			return nil, apperrors.ErrValidation(fmt.Sprintf("unknown packaging type %q", packaging))
		}
		if _, err := parseDecimal(fmt.Sprintf("packages[%d].weight", i), pkg.Weight); err != nil {
			return nil, err
		}
		record.Packages = append(record.Packages, domain.RecordPackage{
			Code:          pkg.Code,
			PackagingType: packaging,
			Weight:        pkg.Weight,
			InsuredValue:  pkg.InsuredValue,
		})
	}

	for _, line := range cmd.Lines {
		record.Lines = append(record.Lines, domain.RecordLine{
			ProductCode:     line.ProductCode,
			Name:            line.Name,
			Quantity:        line.Quantity,
			Unit:            line.Unit,
			DefaultUnit:     line.DefaultUnit,
			UnitFactor:      line.UnitFactor,
			UnitPrice:       line.UnitPrice,
			CountryOfOrigin: line.CountryOfOrigin,
		})
	}

	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to save shipment record")
		return nil, apperrors.ErrInternal("failed to create shipment").WithError(err)
	}
	s.publishEvents(ctx, record)

	return toShipmentDTO(record), nil
}

// GetShipment returns a shipment record by ID
func (s *ShippingService) GetShipment(ctx context.Context, shipmentID string) (*ShipmentDTO, error) {
	record, err := s.load(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return toShipmentDTO(record), nil
}

// GetRates prices a shipment. In single mode the first quote is applied to
// the record.
func (s *ShippingService) GetRates(ctx context.Context, cmd GetRatesCommand) ([]RateQuoteDTO, error) {
	record, err := s.load(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}
	if record.Method != domain.MethodAPI {
		return nil, apperrors.ErrValidation("shipment is not configured for the carrier API")
	}

	mode := domain.RateShop
	switch cmd.Mode {
	case "", "shop":
	case "single":
		mode = domain.RateSingle
	default:
		return nil, apperrors.ErrValidation(fmt.Sprintf("unknown rate mode %q", cmd.Mode))
	}

	request, err := toShipmentRequest(record, s.account, s.catalog)
	if err != nil {
		return nil, err
	}

	quotes, err := s.carrier.GetRates(ctx, request, mode, cmd.Silent)
	if err != nil {
		return nil, apperrors.FromDomain(err)
	}

	if mode == domain.RateSingle && len(quotes) > 0 {
		if err := record.ApplyQuote(quotes[0]); err == nil {
			if err := s.repo.Save(ctx, record); err != nil {
				s.logger.WithError(err).ErrorContext(ctx, "Failed to save rated shipment")
			} else {
				s.publishEvents(ctx, record)
			}
		}
	}

	return toRateQuoteDTOs(quotes), nil
}

// IssueLabel purchases labels for a shipment and records the outcome
func (s *ShippingService) IssueLabel(ctx context.Context, cmd IssueLabelCommand) (*LabelDTO, error) {
	record, err := s.load(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}
	if record.Method != domain.MethodAPI {
		return nil, apperrors.ErrValidation("shipment is not configured for the carrier API")
	}

	request, err := toShipmentRequest(record, s.account, s.catalog)
	if err != nil {
		return nil, err
	}

	result, err := s.carrier.IssueLabel(ctx, request)
	if err != nil {
		return nil, apperrors.FromDomain(err)
	}

	if err := record.ApplyLabel(*result); err != nil {
		return nil, apperrors.FromDomain(err)
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to save labeled shipment")
		return nil, apperrors.ErrInternal("label issued but record not saved").WithError(err)
	}
	s.publishEvents(ctx, record)

	if s.metrics != nil && record.Service != nil {
		s.metrics.LabelsIssued.WithLabelValues(record.Service.Code).Inc()
	}

	return toLabelDTO(record.ShipmentID, result), nil
}

// ConfirmLabel reserves a label purchase for a shipment without settling it
func (s *ShippingService) ConfirmLabel(ctx context.Context, shipmentID string) (*ReservationDTO, error) {
	record, err := s.load(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if record.Method != domain.MethodAPI {
		return nil, apperrors.ErrValidation("shipment is not configured for the carrier API")
	}

	request, err := toShipmentRequest(record, s.account, s.catalog)
	if err != nil {
		return nil, err
	}

	reservation, err := s.carrier.ConfirmLabel(ctx, request)
	if err != nil {
		return nil, apperrors.FromDomain(err)
	}

	record.ConfirmToken = reservation.Token
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to save confirmation token")
	}

	return &ReservationDTO{
		ShipmentID:   shipmentID,
		Digest:       reservation.Digest,
		Token:        reservation.Token,
		Estimate:     reservation.Estimate.Amount.String(),
		Currency:     reservation.Estimate.Currency,
		PackageCount: reservation.PackageCount,
	}, nil
}

// AcceptLabel settles a reserved purchase and records the issued labels
func (s *ShippingService) AcceptLabel(ctx context.Context, shipmentID, digest string, packageCount int) (*LabelDTO, error) {
	result, err := s.carrier.AcceptLabel(ctx, digest, packageCount)
	if err != nil {
		return nil, apperrors.FromDomain(err)
	}

	record, err := s.load(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := record.ApplyLabel(*result); err != nil {
		return nil, apperrors.FromDomain(err)
	}
	record.ConfirmToken = ""
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to save labeled shipment")
		return nil, apperrors.ErrInternal("label issued but record not saved").WithError(err)
	}
	s.publishEvents(ctx, record)

	if s.metrics != nil && record.Service != nil {
		s.metrics.LabelsIssued.WithLabelValues(record.Service.Code).Inc()
	}

	return toLabelDTO(shipmentID, result), nil
}

// AbandonLabel releases a reserved purchase and marks the shipment voided
func (s *ShippingService) AbandonLabel(ctx context.Context, shipmentID, token string) error {
	if err := s.carrier.VoidLabel(ctx, token); err != nil {
		return apperrors.FromDomain(err)
	}

	record, err := s.load(ctx, shipmentID)
	if err != nil {
		return err
	}
	record.MarkVoided(token)
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to save voided shipment")
		return apperrors.ErrInternal("label voided but record not saved").WithError(err)
	}
	s.publishEvents(ctx, record)

	if s.metrics != nil {
		s.metrics.LabelsVoided.Inc()
	}
	return nil
}

// VoidLabel releases a confirmed purchase by its token
func (s *ShippingService) VoidLabel(ctx context.Context, cmd VoidLabelCommand) error {
	if err := s.carrier.VoidLabel(ctx, cmd.Token); err != nil {
		return apperrors.FromDomain(err)
	}
	if s.metrics != nil {
		s.metrics.LabelsVoided.Inc()
	}
	return nil
}

// ExportManifest renders the WorldShip manifest for an offline shipment
func (s *ShippingService) ExportManifest(ctx context.Context, shipmentID string) (*ManifestDTO, error) {
	record, err := s.load(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	request, err := toShipmentRequest(record, s.account, s.catalog)
	if err != nil {
		return nil, err
	}

	document, err := s.exporter.ExportXML(request)
	if err != nil {
		return nil, apperrors.FromDomain(err)
	}

	return &ManifestDTO{
		ShipmentID: shipmentID,
		Document:   string(document),
	}, nil
}

// ValidateAddress checks an address against the carrier
func (s *ShippingService) ValidateAddress(ctx context.Context, cmd ValidateAddressCommand) ([]AddressSuggestionDTO, error) {
	suggestions, err := s.carrier.ValidateAddress(ctx, s.account, toDomainAddress(cmd.Address))
	if err != nil {
		return nil, apperrors.FromDomain(err)
	}
	return toAddressSuggestionDTOs(suggestions), nil
}

func (s *ShippingService) load(ctx context.Context, shipmentID string) (*domain.ShipmentRecord, error) {
	record, err := s.repo.FindByID(ctx, shipmentID)
	if err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to load shipment record")
		return nil, apperrors.ErrInternal("failed to load shipment").WithError(err)
	}
	if record == nil {
		return nil, apperrors.ErrNotFound("shipment", shipmentID)
	}
	return record, nil
}

func (s *ShippingService) publishEvents(ctx context.Context, record *domain.ShipmentRecord) {
	events := record.GetDomainEvents()
	record.ClearDomainEvents()
	if s.producer == nil {
		return
	}
	for _, event := range events {
		if err := s.producer.PublishEvent(ctx, kafka.Topics.ShippingEvents, record.ShipmentID, event.EventType(), event); err != nil {
			s.logger.WithError(err).WithFields(map[string]any{
				"eventType":  event.EventType(),
				"shipmentId": record.ShipmentID,
			}).ErrorContext(ctx, "Failed to publish event")
		}
	}
}
