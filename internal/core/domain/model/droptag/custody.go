package droptag

import (
	"fmt"

	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/errs"
)

// minimumPackageStatus maps a tag status to the status its package must have reached first.
//
//nolint:exhaustive // only states past APPLIED are gated
var minimumPackageStatus = map[Status]packaging.Status{
	StatusSealed:    packaging.StatusQCReleased,
	StatusStaged:    packaging.StatusSealed,
	StatusLoaded:    packaging.StatusSealed,
	StatusShipped:   packaging.StatusLoaded,
	StatusDelivered: packaging.StatusLoaded,
}

// MinimumPackageStatus returns the package status a tag needs before entering target.
func MinimumPackageStatus(target Status) (packaging.Status, bool) {
	s, ok := minimumPackageStatus[target]
	return s, ok
}

// checkCustody fails with InvalidState when moving the tag into target would put it ahead of pkg.
func (t *DropTag) checkCustody(target Status, pkg *packaging.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	if !pkg.ID().IsEqual(t.packageID) {
		return errs.NewIdentityMismatchError("package", t.packageID.String(), pkg.ID().String())
	}
	minimum, gated := minimumPackageStatus[target]
	if !gated || pkg.Status().AtLeast(minimum) {
		return nil
	}
	return errs.NewInvalidStateErrorWithCause(resourceName, t.status.String(), "move to "+target.String(),
		fmt.Errorf("package %s is %s, tag requires at least %s", pkg.Code(), pkg.Status(), minimum))
}
