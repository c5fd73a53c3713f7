package ups

import (
	"strings"

	"github.com/parcelworks/shipping-gateway/internal/domain"
)

// Closed code tables for fault classification. Codes are severity-qualified
// exactly as the carrier reports them; near-miss codes fall through to the
// generic category.
var (
	invalidAddressCodes = map[string]struct{}{
		"Hard-111285": {},
		"Hard-111286": {},
	}
	weightExceededCodes = map[string]struct{}{
		"Hard-111035": {},
		"Hard-111036": {},
	}
)

// Classify turns a raw carrier fault string into a categorized CarrierFault.
// The code is the fragment before the first colon; the remainder is kept
// verbatim, including any leading space.
func Classify(raw string) *domain.CarrierFault {
	code, message := splitFault(raw)

	category := domain.FaultGeneric
	if _, ok := invalidAddressCodes[code]; ok {
		category = domain.FaultInvalidAddress
	} else if _, ok := weightExceededCodes[code]; ok {
		category = domain.FaultWeightExceeded
	}

	return &domain.CarrierFault{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

func splitFault(raw string) (code, message string) {
	if i := strings.Index(raw, ":"); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return "", raw
}
