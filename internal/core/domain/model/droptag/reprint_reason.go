package droptag

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"
)

// MaxReprints is the number of reprints allowed before manual escalation.
const MaxReprints = 3

// ReprintReason explains why another label was printed.
type ReprintReason string

const (
	ReprintDamagedTag      ReprintReason = "DAMAGED_TAG"
	ReprintIllegiblePrint  ReprintReason = "ILLEGIBLE_PRINT"
	ReprintTagFellOff      ReprintReason = "TAG_FELL_OFF"
	ReprintCustomerRequest ReprintReason = "CUSTOMER_REQUEST"
	ReprintAdditionalCopy  ReprintReason = "ADDITIONAL_COPY"
)

// ParseReprintReason accepts a reason name in any case.
func ParseReprintReason(s string) (ReprintReason, error) {
	r := ReprintReason(strings.ToUpper(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate rejects reasons outside the fixed set.
func (r ReprintReason) Validate() error {
	switch r {
	case ReprintDamagedTag, ReprintIllegiblePrint, ReprintTagFellOff, ReprintCustomerRequest, ReprintAdditionalCopy:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("reprint reason", fmt.Errorf("%q is not a valid reprint reason", string(r)))
	}
}
