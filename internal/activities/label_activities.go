package activities

import (
	"context"

	"github.com/parcelworks/shipping-gateway/internal/application"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
)

// LabelActivities exposes label issuance steps as Temporal activities
type LabelActivities struct {
	service *application.ShippingService
	logger  *logging.Logger
}

// NewLabelActivities creates the label activities
func NewLabelActivities(service *application.ShippingService, logger *logging.Logger) *LabelActivities {
	return &LabelActivities{
		service: service,
		logger:  logger.WithComponent("label-activities"),
	}
}

// ConfirmLabel reserves a label purchase for the shipment. Safe to retry:
// confirming again supersedes the previous unsettled reservation.
func (a *LabelActivities) ConfirmLabel(ctx context.Context, shipmentID string) (*application.ReservationDTO, error) {
	a.logger.InfoContext(ctx, "Confirming label", "shipmentId", shipmentID)
	return a.service.ConfirmLabel(ctx, shipmentID)
}

// AcceptLabel settles a reserved purchase. Never retried: the digest is
// consumed by the first attempt and an ambiguous outcome may already have
// charged the account.
func (a *LabelActivities) AcceptLabel(ctx context.Context, shipmentID, digest string, packageCount int) (*application.LabelDTO, error) {
	a.logger.InfoContext(ctx, "Accepting label", "shipmentId", shipmentID)
	return a.service.AcceptLabel(ctx, shipmentID, digest, packageCount)
}

// VoidLabel releases a reserved purchase
func (a *LabelActivities) VoidLabel(ctx context.Context, shipmentID, token string) error {
	a.logger.InfoContext(ctx, "Voiding label", "shipmentId", shipmentID)
	return a.service.AbandonLabel(ctx, shipmentID, token)
}
