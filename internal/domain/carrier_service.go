package domain

import "context"

// CarrierService is the port for carrier protocol operations. Implementations
// translate between domain types and the carrier's wire documents.
type CarrierService interface {
	// GetRates prices the shipment. In RateSingle mode the shipment's service
	// must be set; in RateShop mode all offered services are priced. With
	// silent set, shop-mode address and weight faults degrade to an empty
	// quote list instead of an error.
	GetRates(ctx context.Context, shipment ShipmentRequest, mode RateMode, silent bool) ([]RateQuote, error)

	// IssueLabel runs the full confirm-then-accept purchase in one call
	IssueLabel(ctx context.Context, shipment ShipmentRequest) (*LabelResult, error)

	// ConfirmLabel reserves a label purchase without settling it
	ConfirmLabel(ctx context.Context, shipment ShipmentRequest) (*Reservation, error)

	// AcceptLabel settles a reservation by its digest. The digest is consumed
	// whether or not the call succeeds; an ambiguous outcome must not be
	// retried with the same digest.
	AcceptLabel(ctx context.Context, digest string, packageCount int) (*LabelResult, error)

	// VoidLabel releases a reservation by its confirmation token
	VoidLabel(ctx context.Context, token string) error

	// ValidateAddress returns ranked candidate corrections for an address
	ValidateAddress(ctx context.Context, account CarrierAccount, address Address) ([]AddressSuggestion, error)
}
