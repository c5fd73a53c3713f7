package ups

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parcelworks/shipping-gateway/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantCode     string
		wantMessage  string
		wantCategory domain.FaultCategory
	}{
		{
			name:         "invalid address 111285",
			raw:          "Hard-111285: The postal code 99999 is invalid for FL US.",
			wantCode:     "Hard-111285",
			wantMessage:  " The postal code 99999 is invalid for FL US.",
			wantCategory: domain.FaultInvalidAddress,
		},
		{
			name:         "invalid address 111286",
			raw:          "Hard-111286: The state is not supported in the Customer Integration Environment.",
			wantCode:     "Hard-111286",
			wantMessage:  " The state is not supported in the Customer Integration Environment.",
			wantCategory: domain.FaultInvalidAddress,
		},
		{
			name:         "weight exceeded 111035",
			raw:          "Hard-111035: The total package weight exceeds the maximum allowed.",
			wantCode:     "Hard-111035",
			wantMessage:  " The total package weight exceeds the maximum allowed.",
			wantCategory: domain.FaultWeightExceeded,
		},
		{
			name:         "weight exceeded 111036",
			raw:          "Hard-111036: The package weight exceeds the limit for the selected service.",
			wantCode:     "Hard-111036",
			wantMessage:  " The package weight exceeds the limit for the selected service.",
			wantCategory: domain.FaultWeightExceeded,
		},
		{
			name:         "soft severity of a known code is generic",
			raw:          "Soft-111285: something address-like",
			wantCode:     "Soft-111285",
			wantMessage:  " something address-like",
			wantCategory: domain.FaultGeneric,
		},
		{
			name:         "unknown hard code is generic",
			raw:          "Hard-120100: Missing or invalid shipment digest.",
			wantCode:     "Hard-120100",
			wantMessage:  " Missing or invalid shipment digest.",
			wantCategory: domain.FaultGeneric,
		},
		{
			name:         "message with further colons splits only once",
			raw:          "Hard-111285: bad address: postal code: 99999",
			wantCode:     "Hard-111285",
			wantMessage:  " bad address: postal code: 99999",
			wantCategory: domain.FaultInvalidAddress,
		},
		{
			name:         "no colon keeps whole text as message",
			raw:          "garbled carrier failure",
			wantCode:     "",
			wantMessage:  "garbled carrier failure",
			wantCategory: domain.FaultGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fault := Classify(tt.raw)

			assert.Equal(t, tt.wantCode, fault.Code)
			assert.Equal(t, tt.wantMessage, fault.Message)
			assert.Equal(t, tt.wantCategory, fault.Category)
		})
	}
}

func TestClassifyErrorReproducesRawFault(t *testing.T) {
	raw := "Hard-111285: The postal code 99999 is invalid for FL US."
	fault := Classify(raw)
	assert.Equal(t, raw, fault.Error())
}
