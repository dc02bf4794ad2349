// Package guard protects aggregates, value objects, commands and queries from being
// used as zero values instead of going through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created by their constructor.
// The zero value reports "not constructed".
//
// Example:
//
//	var ErrSealCommandIsNotConstructed = errors.New("SealPackageCommand must be created via NewSealPackageCommand")
//
//	type SealPackageCommand struct {
//	    sealID string
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c SealPackageCommand) Validate() error {
//	    return c.guard.Validate(ErrSealCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) for zero values.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
