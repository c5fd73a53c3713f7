package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecord() *ShipmentRecord {
	record := NewShipmentRecord("SHIP-001", "ORD-001", MethodAPI)
	record.Packages = []RecordPackage{
		{Code: "PKG-1", PackagingType: "02", Weight: "2.5"},
		{Code: "PKG-2", PackagingType: "02", Weight: "4"},
	}
	record.Currency = "USD"
	record.ClearDomainEvents()
	return record
}

func createTestLabelResult() LabelResult {
	return LabelResult{
		TrackingNumber: "1Z12345E0205271688",
		Cost:           Money{Amount: decimal.RequireFromString("25.5"), Currency: "USD"},
		Packages: []PackageLabel{
			{TrackingNumber: "1Z001", Format: "GIF"},
			{TrackingNumber: "1Z002", Format: "GIF"},
		},
	}
}

func TestNewShipmentRecord(t *testing.T) {
	record := NewShipmentRecord("SHIP-001", "ORD-001", MethodAPI)

	assert.Equal(t, RecordStatusPending, record.Status)
	assert.Equal(t, MethodAPI, record.Method)

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "shipping.shipment.created", events[0].EventType())
}

func TestApplyQuote(t *testing.T) {
	record := createTestRecord()
	quote := RateQuote{
		Service:    Service{Code: "01", Name: "Next Day Air"},
		Cost:       Money{Amount: decimal.RequireFromString("34.2"), Currency: "USD"},
		Negotiated: true,
	}

	require.NoError(t, record.ApplyQuote(quote))

	assert.Equal(t, RecordStatusRated, record.Status)
	require.NotNil(t, record.Service)
	assert.Equal(t, "01", record.Service.Code)
	assert.Equal(t, "34.2", record.Cost)
	assert.Equal(t, "USD", record.CostCurrency)

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "shipping.rate.selected", events[0].EventType())
}

func TestApplyLabel(t *testing.T) {
	record := createTestRecord()

	require.NoError(t, record.ApplyLabel(createTestLabelResult()))

	assert.Equal(t, RecordStatusLabeled, record.Status)
	assert.Equal(t, "1Z12345E0205271688", record.TrackingNumber)
	assert.Equal(t, "1Z001", record.Packages[0].TrackingNumber)
	assert.Equal(t, "1Z002", record.Packages[1].TrackingNumber)
	assert.NotNil(t, record.LabeledAt)

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "shipping.label.issued", events[0].EventType())
}

func TestApplyLabelGuardsDoubleLabeling(t *testing.T) {
	record := createTestRecord()
	require.NoError(t, record.ApplyLabel(createTestLabelResult()))

	err := record.ApplyLabel(createTestLabelResult())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyLabeled)
}

func TestApplyLabelGuardsCountMismatch(t *testing.T) {
	record := createTestRecord()
	result := createTestLabelResult()
	result.Packages = result.Packages[:1]

	err := record.ApplyLabel(result)

	require.Error(t, err)
	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 2, integrityErr.Expected)
	assert.Equal(t, 1, integrityErr.Actual)
	assert.Empty(t, record.TrackingNumber)
}

func TestMarkVoided(t *testing.T) {
	record := createTestRecord()
	record.ConfirmToken = "1Z12345E0205271688"

	record.MarkVoided("1Z12345E0205271688")

	assert.Equal(t, RecordStatusVoided, record.Status)
	assert.Empty(t, record.ConfirmToken)
	assert.NotNil(t, record.VoidedAt)

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "shipping.label.voided", events[0].EventType())
}

func TestLineItemMonetaryValue(t *testing.T) {
	// same unit as default: quantity times price
	line := LineItem{
		Quantity:    decimal.NewFromInt(2),
		Unit:        "Unit",
		DefaultUnit: "Unit",
		UnitPrice:   decimal.NewFromInt(5),
	}
	assert.Equal(t, "10", line.MonetaryValue().String())

	// differing unit: quantity normalized through the conversion factor
	line = LineItem{
		Quantity:    decimal.NewFromInt(1),
		Unit:        "Box",
		DefaultUnit: "Unit",
		UnitFactor:  decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(5),
	}
	assert.Equal(t, "10", line.MonetaryValue().String())
}

func TestUOMSystemCodes(t *testing.T) {
	assert.Equal(t, "LBS", UOMEnglish.WeightCode())
	assert.Equal(t, "KGS", UOMMetric.WeightCode())
	assert.Equal(t, "in", UOMEnglish.LengthCode())
	assert.Equal(t, "cm", UOMMetric.LengthCode())
}

func TestPackagingDefault(t *testing.T) {
	pkg := PackageSpec{}
	assert.Equal(t, "02", pkg.Packaging())
	assert.True(t, ValidPackagingType("2c"))
	assert.False(t, ValidPackagingType("zz"))
}
