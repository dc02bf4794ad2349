package services

import (
	"fmt"
	"strings"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/errs"
)

// TagIssuer validates a package's material and creates a drop tag summarizing it.
//
// Business rules:
//   - the package must be PACKING, READY_FOR_QC or QC_RELEASED
//   - QC must not be on HOLD or REJECTED, and the package must hold at least one item
//   - all items share one grade and one form; every violation is reported together
//   - mixed heats are only a warning and leave the tag heat number empty
type TagIssuer struct{}

// NewTagIssuer returns the stateless issuing service.
func NewTagIssuer() TagIssuer {
	return TagIssuer{}
}

// Issue returns the new DRAFT tag and any operator warnings.
func (TagIssuer) Issue(
	pkg *packaging.Package,
	existing []*droptag.DropTag,
	id kernel.UUID,
	code kernel.Code,
	now time.Time,
) (*droptag.DropTag, []string, error) {
	if err := pkg.Validate(); err != nil {
		return nil, nil, err
	}

	switch pkg.Status() { //nolint:exhaustive // every other status is rejected
	case packaging.StatusPacking, packaging.StatusReadyForQC, packaging.StatusQCReleased:
	default:
		return nil, nil, errs.NewInvalidStateError("package", pkg.Status().String(), "generate a drop tag for")
	}

	items := pkg.Items()
	var reasons []string
	if pkg.QCStatus().IsBlocking() {
		reasons = append(reasons, fmt.Sprintf("Package %s is on QC %s", pkg.Code(), pkg.QCStatus()))
	}
	if len(items) == 0 {
		reasons = append(reasons, fmt.Sprintf("Package %s has no items", pkg.Code()))
	}

	grades := distinct(items, func(i *packaging.Item) string { return i.Grade() })
	forms := distinct(items, func(i *packaging.Item) string { return i.Form() })
	if len(grades) > 1 {
		reasons = append(reasons, "Mixed grades detected: "+strings.Join(grades, ", "))
	}
	if len(forms) > 1 {
		reasons = append(reasons, "Mixed forms detected: "+strings.Join(forms, ", "))
	}
	if len(reasons) > 0 {
		return nil, nil, errs.NewValidationFailedError(reasons...)
	}

	var warnings []string
	heat := singleHeat(items, &warnings)

	active := 0
	for _, tag := range existing {
		if tag.IsActive() {
			active++
		}
	}
	if active > 0 {
		warnings = append(warnings, fmt.Sprintf("Package %s already has %d active drop tag(s)", pkg.Code(), active))
	}

	tag, err := droptag.NewDropTag(id, code, pkg.ID(), droptag.Material{
		Grade:      grades[0],
		Form:       forms[0],
		HeatNumber: heat,
		Pieces:     pkg.Pieces(),
		Weight:     pkg.NetWeight(),
	}, now)
	if err != nil {
		return nil, nil, err
	}

	return tag, warnings, nil
}

// singleHeat returns the shared heat number, or nil with a warning when heats differ or are missing.
func singleHeat(items []*packaging.Item, warnings *[]string) *string {
	heats := distinct(items, func(i *packaging.Item) string { return i.HeatNumber() })
	missing := 0
	for _, item := range items {
		if item.HeatNumber() == "" {
			missing++
		}
	}

	if len(heats) > 1 {
		*warnings = append(*warnings, "Mixed heat numbers detected: "+strings.Join(heats, ", "))
	}
	if missing > 0 {
		*warnings = append(*warnings, fmt.Sprintf("Heat number missing on %d item(s)", missing))
	}
	if len(heats) != 1 || missing > 0 {
		return nil
	}
	return &heats[0]
}

// distinct returns the non-empty values of key in order of first appearance.
func distinct(items []*packaging.Item, key func(*packaging.Item) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		v := key(item)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
