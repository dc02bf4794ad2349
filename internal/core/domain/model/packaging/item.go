package packaging

import (
	"errors"
	"fmt"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned by Validate for zero-value items.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one line of material inside a package. Items are immutable once added.
type Item struct {
	id         kernel.UUID
	grade      string
	form       string
	heatNumber string
	pieces     int
	weight     kernel.Weight
	dimensions string
	guard      guard.ConstructorGuard
}

// NewItem validates and creates an item. Grade and form are normalized to upper case so
// mixed-material detection is not fooled by operator typing; the heat number is optional.
func NewItem(id kernel.UUID, grade, form, heatNumber string, pieces int, weight kernel.Weight, dimensions string) (*Item, error) {
	item := &Item{
		heatNumber: strings.TrimSpace(heatNumber),
		dimensions: strings.TrimSpace(dimensions),
		weight:     weight,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setGrade(grade),
		item.setForm(form),
		item.setPieces(pieces),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// ID returns the item identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// Grade returns the upper-case material grade, e.g. 4140.
func (i *Item) Grade() string {
	return i.grade
}

// Form returns the upper-case material form, e.g. ROUND_BAR.
func (i *Item) Form() string {
	return i.form
}

// HeatNumber returns the mill heat, or "" when unknown.
func (i *Item) HeatNumber() string {
	return i.heatNumber
}

// Pieces returns the number of cut pieces.
func (i *Item) Pieces() int {
	return i.pieces
}

// Weight returns the item weight.
func (i *Item) Weight() kernel.Weight {
	return i.weight
}

// Dimensions returns the free-form size description.
func (i *Item) Dimensions() string {
	return i.dimensions
}

// Validate ensures the item was created through NewItem.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setGrade(grade string) error {
	grade = strings.ToUpper(strings.TrimSpace(grade))
	if grade == "" {
		return errs.NewValueIsRequiredError("grade")
	}
	i.grade = grade
	return nil
}

func (i *Item) setForm(form string) error {
	form = strings.ToUpper(strings.TrimSpace(form))
	if form == "" {
		return errs.NewValueIsRequiredError("form")
	}
	i.form = form
	return nil
}

func (i *Item) setPieces(pieces int) error {
	if pieces <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("pieces", fmt.Errorf("%d is not greater than 0", pieces))
	}
	i.pieces = pieces
	return nil
}
