package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrConfirmListingDeliveredCommandIsNotConstructed = errors.New(
	"ConfirmListingDeliveredCommand must be created via NewConfirmListingDeliveredCommand constructor",
)

// ConfirmListingDeliveredCommand carries the proof of delivery signed at the customer.
type ConfirmListingDeliveredCommand struct { //nolint:recvcheck //using for validation
	listingRef
	pod   listing.ProofOfDelivery
	guard guard.ConstructorGuard
}

// NewConfirmListingDeliveredCommand creates a command to record the proof of delivery.
// Validates the listing id and actor and requires a signer name.
func NewConfirmListingDeliveredCommand(
	listingID kernel.UUID,
	pod listing.ProofOfDelivery,
	actor kernel.Actor,
) (ConfirmListingDeliveredCommand, error) {
	ref, err := newListingRef(listingID, actor)
	var signerErr error
	if strings.TrimSpace(pod.SignerName) == "" {
		signerErr = errs.NewValueIsRequiredError("POD signer")
	}
	if err = errors.Join(err, signerErr); err != nil {
		return ConfirmListingDeliveredCommand{}, err
	}
	return ConfirmListingDeliveredCommand{listingRef: ref, pod: pod, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConfirmListingDeliveredCommandIsNotConstructed if validation fails.
func (c ConfirmListingDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrConfirmListingDeliveredCommandIsNotConstructed)
}

// POD returns the signed proof of delivery.
func (c ConfirmListingDeliveredCommand) POD() listing.ProofOfDelivery {
	return c.pod
}
