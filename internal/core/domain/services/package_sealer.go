package services

import (
	"fmt"
	"strings"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"
)

// PackageSealer seals a package together with its drop tags.
type PackageSealer struct{}

// NewPackageSealer returns the stateless seal service.
func NewPackageSealer() PackageSealer {
	return PackageSealer{}
}

// Seal requires at least one active tag and every active tag APPLIED or already SEALED.
// Offenders are listed by code. On success the package is SEALED and every APPLIED tag
// cascades to SEALED; the returned cascades name those tags.
func (PackageSealer) Seal(
	pkg *packaging.Package,
	tags []*droptag.DropTag,
	sealID, by string,
	now time.Time,
) ([]trace.Cascade, error) {
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	if pkg.Status() != packaging.StatusQCReleased {
		return nil, errs.NewInvalidStateError("package", pkg.Status().String(), "seal")
	}
	if !pkg.QCStatus().IsPassed() {
		return nil, errs.NewPrerequisiteNotMetError("QC release",
			fmt.Sprintf("package %s has QC status %s", pkg.Code(), pkg.QCStatus()))
	}

	var active, offenders []string
	var toSeal []*droptag.DropTag
	for _, tag := range tags {
		if !tag.IsActive() {
			continue
		}
		active = append(active, tag.Code().String())
		switch tag.Status() { //nolint:exhaustive // everything else is an offender
		case droptag.StatusApplied:
			toSeal = append(toSeal, tag)
		case droptag.StatusSealed:
		default:
			offenders = append(offenders, fmt.Sprintf("%s (%s)", tag.Code(), tag.Status()))
		}
	}
	if len(active) == 0 {
		return nil, errs.NewPrerequisiteNotMetErrorWithCause("applied drop tags",
			fmt.Sprintf("package %s has no active drop tags", pkg.Code()), packaging.ErrTagsNotApplied)
	}
	if len(offenders) > 0 {
		return nil, errs.NewPrerequisiteNotMetErrorWithCause("applied drop tags",
			"tags not applied: "+strings.Join(offenders, ", "), packaging.ErrTagsNotApplied)
	}

	if err := pkg.Seal(sealID, by, now); err != nil {
		return nil, err
	}

	cascades := make([]trace.Cascade, 0, len(toSeal))
	for _, tag := range toSeal {
		from := tag.Status()
		if err := tag.Seal(pkg, now); err != nil {
			return nil, err
		}
		cascades = append(cascades, tagCascade(tag, from))
	}
	return cascades, nil
}

// SealsPackage reports whether every active tag of the package is SEALED, i.e. whether the
// station seal of the last tag should also seal the package.
func SealsPackage(siblings []*droptag.DropTag) bool {
	active := 0
	for _, tag := range siblings {
		if !tag.IsActive() {
			continue
		}
		active++
		if tag.Status() != droptag.StatusSealed {
			return false
		}
	}
	return active > 0
}

func tagCascade(tag *droptag.DropTag, from droptag.Status) trace.Cascade {
	return trace.Cascade{
		ResourceType: trace.ResourceDropTag,
		ResourceID:   tag.ID().String(),
		Code:         tag.Code().String(),
		From:         from.String(),
		To:           tag.Status().String(),
	}
}

func packageCascade(pkg *packaging.Package, from packaging.Status) trace.Cascade {
	return trace.Cascade{
		ResourceType: trace.ResourcePackage,
		ResourceID:   pkg.ID().String(),
		Code:         pkg.Code().String(),
		From:         from.String(),
		To:           pkg.Status().String(),
	}
}
