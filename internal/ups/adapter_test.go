package ups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/shipping-gateway/internal/currency"
	"github.com/parcelworks/shipping-gateway/internal/domain"
)

const rateResponseSingle = `<RatingServiceSelectionResponse>
	<Response><ResponseStatusCode>1</ResponseStatusCode></Response>
	<RatedShipment>
		<Service><Code>01</Code></Service>
		<TotalCharges><CurrencyCode>USD</CurrencyCode><MonetaryValue>34.20</MonetaryValue></TotalCharges>
	</RatedShipment>
</RatingServiceSelectionResponse>`

const rateResponseInvalidAddress = `<RatingServiceSelectionResponse>
	<Response>
		<ResponseStatusCode>0</ResponseStatusCode>
		<Error>
			<ErrorSeverity>Hard</ErrorSeverity>
			<ErrorCode>111285</ErrorCode>
			<ErrorDescription>The postal code 99999 is invalid for FL US.</ErrorDescription>
		</Error>
	</Response>
</RatingServiceSelectionResponse>`

const rateResponseGenericFault = `<RatingServiceSelectionResponse>
	<Response>
		<ResponseStatusCode>0</ResponseStatusCode>
		<Error>
			<ErrorSeverity>Hard</ErrorSeverity>
			<ErrorCode>250003</ErrorCode>
			<ErrorDescription>Invalid Access License number.</ErrorDescription>
		</Error>
	</Response>
</RatingServiceSelectionResponse>`

func newTestAdapter(transport Transport) *Adapter {
	return NewAdapter(transport, domain.DefaultServiceCatalog(), currency.NewRegistry(), quietLogger(), nil)
}

func TestGetRatesSingleService(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpRate, rateResponseSingle)
	adapter := newTestAdapter(transport)

	quotes, err := adapter.GetRates(context.Background(), createTestShipment(), domain.RateSingle, false)

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "01", quotes[0].Service.Code)
	assert.Equal(t, "Next Day Air", quotes[0].Service.Name)
	assert.Equal(t, "34.2", quotes[0].Cost.Amount.String())
	assert.False(t, quotes[0].Negotiated)
}

func TestGetRatesSilentShopDegradesAddressFault(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpRate, rateResponseInvalidAddress)
	adapter := newTestAdapter(transport)

	quotes, err := adapter.GetRates(context.Background(), createTestShipment(), domain.RateShop, true)

	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestGetRatesSilentShopSurfacesGenericFault(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpRate, rateResponseGenericFault)
	adapter := newTestAdapter(transport)

	_, err := adapter.GetRates(context.Background(), createTestShipment(), domain.RateShop, true)

	require.Error(t, err)
	var fault *domain.CarrierFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, domain.FaultGeneric, fault.Category)
}

func TestGetRatesLoudShopSurfacesAddressFault(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpRate, rateResponseInvalidAddress)
	adapter := newTestAdapter(transport)

	_, err := adapter.GetRates(context.Background(), createTestShipment(), domain.RateShop, false)

	require.Error(t, err)
	var fault *domain.CarrierFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, domain.FaultInvalidAddress, fault.Category)
}

func TestGetRatesSilentSingleSurfacesAddressFault(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpRate, rateResponseInvalidAddress)
	adapter := newTestAdapter(transport)

	_, err := adapter.GetRates(context.Background(), createTestShipment(), domain.RateSingle, true)

	require.Error(t, err)
	var fault *domain.CarrierFault
	assert.ErrorAs(t, err, &fault)
}

func TestGetRatesValidationFailureMakesNoCall(t *testing.T) {
	transport := newFakeTransport()
	adapter := newTestAdapter(transport)

	shipment := createTestShipment()
	shipment.Service = nil

	_, err := adapter.GetRates(context.Background(), shipment, domain.RateSingle, true)

	require.Error(t, err)
	assert.Empty(t, transport.calls)
}

func TestConfirmThenAcceptThroughPort(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpConfirm, confirmResponseOK)
	transport.stub(OpAccept, acceptResponseOK("1Z001"))
	adapter := newTestAdapter(transport)

	reservation, err := adapter.ConfirmLabel(context.Background(), createTestShipment())
	require.NoError(t, err)
	assert.Equal(t, "rO0ABXNyABZjb20udXBz", reservation.Digest)
	assert.Equal(t, "1Z12345E0205271688", reservation.Token)
	assert.Equal(t, 1, reservation.PackageCount)
	assert.Equal(t, "25.5", reservation.Estimate.Amount.String())

	result, err := adapter.AcceptLabel(context.Background(), reservation.Digest, reservation.PackageCount)
	require.NoError(t, err)
	assert.Equal(t, "1Z001", result.Packages[0].TrackingNumber)
}

func TestVoidLabelThroughPort(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpVoid, voidResponseOK)
	adapter := newTestAdapter(transport)

	err := adapter.VoidLabel(context.Background(), "1Z12345E0205271688")

	require.NoError(t, err)
	assert.Equal(t, []Operation{OpVoid}, transport.calls)
}

func TestValidateAddress(t *testing.T) {
	transport := newFakeTransport()
	transport.stub(OpAddressValidate, `<AddressValidationResponse>
		<Response><ResponseStatusCode>1</ResponseStatusCode></Response>
		<AddressValidationResult>
			<Rank>1</Rank>
			<Quality>0.9875</Quality>
			<Address><City>MIAMI</City><StateProvinceCode>FL</StateProvinceCode></Address>
			<PostalCodeLowEnd>33101</PostalCodeLowEnd>
			<PostalCodeHighEnd>33111</PostalCodeHighEnd>
		</AddressValidationResult>
	</AddressValidationResponse>`)
	adapter := newTestAdapter(transport)

	suggestions, err := adapter.ValidateAddress(context.Background(), createTestAccount(), domain.Address{
		City:    "Miami",
		State:   "FL",
		Country: "US",
	})

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 1, suggestions[0].Rank)
	assert.InDelta(t, 0.9875, suggestions[0].Quality, 1e-9)
	assert.Equal(t, "MIAMI", suggestions[0].City)
	assert.Equal(t, "33101", suggestions[0].PostalCodeLow)
}
