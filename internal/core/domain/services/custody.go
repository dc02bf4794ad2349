package services

import (
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"
)

// Custody moves a tag and its package forward together. The tag moves first so the custody
// table is checked against the package's current status; the package then advances to at
// least the same stage. A package already there is left alone and produces no cascade.
type Custody struct{}

// NewCustody returns the stateless custody service.
func NewCustody() Custody {
	return Custody{}
}

// SealAtStation seals one tag and, when it was the last active sibling to seal, the package too.
// siblings are all tags of the package including tag itself.
func (Custody) SealAtStation(
	tag *droptag.DropTag,
	pkg *packaging.Package,
	siblings []*droptag.DropTag,
	sealID, by string,
	now time.Time,
) ([]trace.Cascade, error) {
	if err := tag.Seal(pkg, now); err != nil {
		return nil, err
	}
	if !SealsPackage(siblings) || pkg.Status() != packaging.StatusQCReleased {
		return nil, nil
	}
	from := pkg.Status()
	if err := pkg.Seal(sealID, by, now); err != nil {
		return nil, err
	}
	return []trace.Cascade{packageCascade(pkg, from)}, nil
}

// Stage moves a SEALED tag and its package to STAGED.
func (c Custody) Stage(tag *droptag.DropTag, pkg *packaging.Package, now time.Time) ([]trace.Cascade, error) {
	return c.move(tag, pkg, now, tag.Stage, pkg.Stage)
}

// Load moves a SEALED or STAGED tag and its package to LOADED.
func (c Custody) Load(tag *droptag.DropTag, pkg *packaging.Package, now time.Time) ([]trace.Cascade, error) {
	return c.move(tag, pkg, now, tag.Load, pkg.Load)
}

// Ship moves a LOADED tag and its package to SHIPPED.
func (c Custody) Ship(tag *droptag.DropTag, pkg *packaging.Package, now time.Time) ([]trace.Cascade, error) {
	return c.move(tag, pkg, now, tag.Ship, pkg.Ship)
}

// Deliver moves a LOADED or SHIPPED tag and its package to DELIVERED.
// The package cascade is reported only when the package actually moved.
func (c Custody) Deliver(tag *droptag.DropTag, pkg *packaging.Package, now time.Time) ([]trace.Cascade, error) {
	return c.move(tag, pkg, now, tag.Deliver, pkg.Deliver)
}

// ShipAll cascades every listing member and its package to SHIPPED.
func (c Custody) ShipAll(members []*droptag.DropTag, packages map[kernel.UUID]*packaging.Package, now time.Time) ([]trace.Cascade, error) {
	var cascades []trace.Cascade
	for _, tag := range members {
		pkg, err := packageOf(tag, packages)
		if err != nil {
			return nil, err
		}
		from := tag.Status()
		moved, err := c.Ship(tag, pkg, now)
		if err != nil {
			return nil, err
		}
		cascades = append(cascades, tagCascade(tag, from))
		cascades = append(cascades, moved...)
	}
	return cascades, nil
}

// DeliverAll cascades every listing member and its package to DELIVERED. Tags already
// delivered at a DELIVER station are skipped.
func (c Custody) DeliverAll(members []*droptag.DropTag, packages map[kernel.UUID]*packaging.Package, now time.Time) ([]trace.Cascade, error) {
	var cascades []trace.Cascade
	for _, tag := range members {
		if tag.Status() == droptag.StatusDelivered || tag.Status() == droptag.StatusVoid {
			continue
		}
		pkg, err := packageOf(tag, packages)
		if err != nil {
			return nil, err
		}
		from := tag.Status()
		moved, err := c.Deliver(tag, pkg, now)
		if err != nil {
			return nil, err
		}
		cascades = append(cascades, tagCascade(tag, from))
		cascades = append(cascades, moved...)
	}
	return cascades, nil
}

func (Custody) move(
	tag *droptag.DropTag,
	pkg *packaging.Package,
	now time.Time,
	moveTag func(*packaging.Package, time.Time) error,
	movePackage func(time.Time) (bool, error),
) ([]trace.Cascade, error) {
	from := pkg.Status()
	if err := moveTag(pkg, now); err != nil {
		return nil, err
	}
	changed, err := movePackage(now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}
	return []trace.Cascade{packageCascade(pkg, from)}, nil
}

func packageOf(tag *droptag.DropTag, packages map[kernel.UUID]*packaging.Package) (*packaging.Package, error) {
	pkg, ok := packages[tag.PackageID()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("package", tag.PackageID())
	}
	return pkg, nil
}
