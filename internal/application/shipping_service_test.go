package application

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/shipping-gateway/internal/domain"
	apperrors "github.com/parcelworks/shipping-gateway/pkg/errors"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
)

type fakeRepo struct {
	records map[string]*domain.ShipmentRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*domain.ShipmentRecord)}
}

func (r *fakeRepo) Save(ctx context.Context, record *domain.ShipmentRecord) error {
	r.records[record.ShipmentID] = record
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, shipmentID string) (*domain.ShipmentRecord, error) {
	return r.records[shipmentID], nil
}

func (r *fakeRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.ShipmentRecord, error) {
	for _, record := range r.records {
		if record.OrderID == orderID {
			return record, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error) {
	for _, record := range r.records {
		if record.TrackingNumber == trackingNumber {
			return record, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByStatus(ctx context.Context, status domain.RecordStatus) ([]*domain.ShipmentRecord, error) {
	var out []*domain.ShipmentRecord
	for _, record := range r.records {
		if record.Status == status {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, shipmentID string) error {
	delete(r.records, shipmentID)
	return nil
}

type fakeCarrier struct {
	quotes      []domain.RateQuote
	labelResult *domain.LabelResult
	err         error

	issuedFor   []string
	voidedToken string
	lastMode    domain.RateMode
	lastSilent  bool
}

func (c *fakeCarrier) GetRates(ctx context.Context, sh domain.ShipmentRequest, mode domain.RateMode, silent bool) ([]domain.RateQuote, error) {
	c.lastMode = mode
	c.lastSilent = silent
	return c.quotes, c.err
}

func (c *fakeCarrier) IssueLabel(ctx context.Context, sh domain.ShipmentRequest) (*domain.LabelResult, error) {
	c.issuedFor = append(c.issuedFor, sh.ShipmentID)
	return c.labelResult, c.err
}

func (c *fakeCarrier) ConfirmLabel(ctx context.Context, sh domain.ShipmentRequest) (*domain.Reservation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &domain.Reservation{
		Digest:       "digest-abc",
		Token:        "1Z12345E0205271688",
		Estimate:     domain.Money{Amount: decimal.RequireFromString("25.5"), Currency: "USD"},
		PackageCount: len(sh.Packages),
	}, nil
}

func (c *fakeCarrier) AcceptLabel(ctx context.Context, digest string, packageCount int) (*domain.LabelResult, error) {
	return c.labelResult, c.err
}

func (c *fakeCarrier) VoidLabel(ctx context.Context, token string) error {
	c.voidedToken = token
	return c.err
}

func (c *fakeCarrier) ValidateAddress(ctx context.Context, account domain.CarrierAccount, address domain.Address) ([]domain.AddressSuggestion, error) {
	return nil, c.err
}

func newTestService(repo *fakeRepo, carrier *fakeCarrier) *ShippingService {
	logConfig := logging.DefaultConfig("test")
	logConfig.Output = io.Discard

	account := domain.CarrierAccount{
		LicenseKey:    "license-key",
		UserID:        "user-id",
		Password:      "secret",
		ShipperNumber: "A1B2C3",
		UOMSystem:     domain.UOMEnglish,
		Method:        domain.MethodAPI,
	}

	return NewShippingService(repo, carrier, account, domain.DefaultServiceCatalog(), nil, nil, logging.New(logConfig))
}

func createShipmentCommand() CreateShipmentCommand {
	return CreateShipmentCommand{
		OrderID:     "ORD-001",
		ServiceCode: "01",
		Currency:    "USD",
		Shipper: AddressInput{
			Name: "Warehouse Ops", Company: "Parcelworks Inc", Street1: "1 Depot Way",
			City: "Orlando", State: "FL", PostalCode: "32801", Country: "US",
		},
		Origin: AddressInput{
			Name: "Dock 4", Street1: "1 Depot Way",
			City: "Orlando", State: "FL", PostalCode: "32801", Country: "US",
		},
		Destination: AddressInput{
			Name: "Jane Receiver", Street1: "500 Harbor Blvd",
			City: "Miami", State: "FL", PostalCode: "33101", Country: "US",
		},
		Packages: []PackageInput{
			{Code: "PKG-1", Weight: "2.5"},
			{Code: "PKG-2", PackagingType: "01", Weight: "0.4"},
		},
	}
}

func testLabelResult() *domain.LabelResult {
	return &domain.LabelResult{
		TrackingNumber: "1Z12345E0205271688",
		Cost:           domain.Money{Amount: decimal.RequireFromString("25.5"), Currency: "USD"},
		Packages: []domain.PackageLabel{
			{TrackingNumber: "1Z001", Format: "GIF", Image: []byte("label-one")},
			{TrackingNumber: "1Z002", Format: "GIF", Image: []byte("label-two")},
		},
	}
}

func TestCreateShipment(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo, &fakeCarrier{})

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())

	require.NoError(t, err)
	assert.NotEmpty(t, shipment.ShipmentID)
	assert.Equal(t, "pending", shipment.Status)
	assert.Equal(t, "ups", shipment.Method)
	assert.Equal(t, "01", shipment.ServiceCode)
	require.Len(t, shipment.Packages, 2)
	// unset packaging type defaulted to customer supplied
	assert.Equal(t, "02", shipment.Packages[0].PackagingType)
	assert.Contains(t, repo.records, shipment.ShipmentID)
}

func TestCreateShipmentRejectsUnknownPackagingType(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeCarrier{})
	cmd := createShipmentCommand()
	cmd.Packages[0].PackagingType = "zz"

	_, err := service.CreateShipment(context.Background(), cmd)

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreateShipmentRejectsBadWeight(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeCarrier{})
	cmd := createShipmentCommand()
	cmd.Packages[0].Weight = "heavy"

	_, err := service.CreateShipment(context.Background(), cmd)

	require.Error(t, err)
}

func TestGetRatesSingleAppliesQuote(t *testing.T) {
	repo := newFakeRepo()
	carrier := &fakeCarrier{
		quotes: []domain.RateQuote{{
			Service: domain.Service{Code: "01", Name: "Next Day Air"},
			Cost:    domain.Money{Amount: decimal.RequireFromString("34.2"), Currency: "USD"},
		}},
	}
	service := newTestService(repo, carrier)

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	quotes, err := service.GetRates(context.Background(), GetRatesCommand{
		ShipmentID: shipment.ShipmentID,
		Mode:       "single",
	})

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, domain.RateSingle, carrier.lastMode)

	record := repo.records[shipment.ShipmentID]
	assert.Equal(t, domain.RecordStatusRated, record.Status)
	assert.Equal(t, "34.2", record.Cost)
}

func TestGetRatesShopDoesNotApplyQuote(t *testing.T) {
	repo := newFakeRepo()
	carrier := &fakeCarrier{
		quotes: []domain.RateQuote{{
			Service: domain.Service{Code: "01", Name: "Next Day Air"},
			Cost:    domain.Money{Amount: decimal.RequireFromString("34.2"), Currency: "USD"},
		}},
	}
	service := newTestService(repo, carrier)

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	_, err = service.GetRates(context.Background(), GetRatesCommand{
		ShipmentID: shipment.ShipmentID,
		Silent:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RateShop, carrier.lastMode)
	assert.True(t, carrier.lastSilent)
	assert.Equal(t, domain.RecordStatusPending, repo.records[shipment.ShipmentID].Status)
}

func TestIssueLabelPersistsOutcome(t *testing.T) {
	repo := newFakeRepo()
	carrier := &fakeCarrier{labelResult: testLabelResult()}
	service := newTestService(repo, carrier)

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	label, err := service.IssueLabel(context.Background(), IssueLabelCommand{ShipmentID: shipment.ShipmentID})

	require.NoError(t, err)
	assert.Equal(t, "1Z12345E0205271688", label.TrackingNumber)
	require.Len(t, label.Packages, 2)

	record := repo.records[shipment.ShipmentID]
	assert.Equal(t, domain.RecordStatusLabeled, record.Status)
	assert.Equal(t, "1Z001", record.Packages[0].TrackingNumber)
	assert.Equal(t, "1Z002", record.Packages[1].TrackingNumber)
}

func TestIssueLabelUnknownShipment(t *testing.T) {
	service := newTestService(newFakeRepo(), &fakeCarrier{})

	_, err := service.IssueLabel(context.Background(), IssueLabelCommand{ShipmentID: "missing"})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestIssueLabelCarrierFaultMapped(t *testing.T) {
	repo := newFakeRepo()
	carrier := &fakeCarrier{err: &domain.CarrierFault{
		Code:     "Hard-111285",
		Message:  " The postal code 99999 is invalid for FL US.",
		Category: domain.FaultInvalidAddress,
	}}
	service := newTestService(repo, carrier)

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	_, err = service.IssueLabel(context.Background(), IssueLabelCommand{ShipmentID: shipment.ShipmentID})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "CARRIER_FAULT", appErr.Code)
	assert.Equal(t, "Hard-111285", appErr.Details["carrierCode"])
}

func TestAcceptLabelSettlesReservation(t *testing.T) {
	repo := newFakeRepo()
	carrier := &fakeCarrier{labelResult: testLabelResult()}
	service := newTestService(repo, carrier)

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	reservation, err := service.ConfirmLabel(context.Background(), shipment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, "digest-abc", reservation.Digest)
	assert.Equal(t, 2, reservation.PackageCount)
	assert.Equal(t, "1Z12345E0205271688", repo.records[shipment.ShipmentID].ConfirmToken)

	label, err := service.AcceptLabel(context.Background(), shipment.ShipmentID, reservation.Digest, reservation.PackageCount)
	require.NoError(t, err)
	assert.Equal(t, "1Z12345E0205271688", label.TrackingNumber)
	assert.Equal(t, domain.RecordStatusLabeled, repo.records[shipment.ShipmentID].Status)
	assert.Empty(t, repo.records[shipment.ShipmentID].ConfirmToken)
}

func TestAbandonLabelVoidsAndMarksRecord(t *testing.T) {
	repo := newFakeRepo()
	carrier := &fakeCarrier{}
	service := newTestService(repo, carrier)

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	_, err = service.ConfirmLabel(context.Background(), shipment.ShipmentID)
	require.NoError(t, err)

	err = service.AbandonLabel(context.Background(), shipment.ShipmentID, "1Z12345E0205271688")

	require.NoError(t, err)
	assert.Equal(t, "1Z12345E0205271688", carrier.voidedToken)
	assert.Equal(t, domain.RecordStatusVoided, repo.records[shipment.ShipmentID].Status)
}

func TestExportManifestRequiresWorldshipMethod(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo, &fakeCarrier{})

	shipment, err := service.CreateShipment(context.Background(), createShipmentCommand())
	require.NoError(t, err)

	_, err = service.ExportManifest(context.Background(), shipment.ShipmentID)

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestExportManifestForWorldshipShipment(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo, &fakeCarrier{})

	cmd := createShipmentCommand()
	cmd.Method = "ups_worldship"
	cmd.Lines = []LineInput{
		{ProductCode: "W-100", Name: "Widget", Quantity: "2", Unit: "Unit", UnitPrice: "4.95"},
	}
	shipment, err := service.CreateShipment(context.Background(), cmd)
	require.NoError(t, err)

	manifest, err := service.ExportManifest(context.Background(), shipment.ShipmentID)

	require.NoError(t, err)
	assert.Equal(t, shipment.ShipmentID, manifest.ShipmentID)
	assert.Contains(t, manifest.Document, "<WorldShip>")
	assert.Contains(t, manifest.Document, "<ServiceType>Standard</ServiceType>")
}

func TestVoidLabelDelegatesToCarrier(t *testing.T) {
	carrier := &fakeCarrier{}
	service := newTestService(newFakeRepo(), carrier)

	err := service.VoidLabel(context.Background(), VoidLabelCommand{Token: "1Z12345E0205271688"})

	require.NoError(t, err)
	assert.Equal(t, "1Z12345E0205271688", carrier.voidedToken)
}
