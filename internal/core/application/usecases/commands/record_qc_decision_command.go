package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/guard"
)

var ErrRecordQCDecisionCommandIsNotConstructed = errors.New(
	"RecordQCDecisionCommand must be created via NewRecordQCDecisionCommand constructor",
)

// RecordQCDecisionCommand carries an inspector's verdict. Releasing QC is the RELEASE decision.
type RecordQCDecisionCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	decision  packaging.QCDecision
	notes     string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewRecordQCDecisionCommand creates a command to record an inspection verdict.
// Validates the package id, decision and actor. Notes are optional.
func NewRecordQCDecisionCommand(
	packageID kernel.UUID,
	decision packaging.QCDecision,
	notes string,
	actor kernel.Actor,
) (RecordQCDecisionCommand, error) {
	if err := errors.Join(packageID.Validate(), decision.Validate(), actor.Validate()); err != nil {
		return RecordQCDecisionCommand{}, err
	}
	return RecordQCDecisionCommand{
		packageID: packageID,
		decision:  decision,
		notes:     strings.TrimSpace(notes),
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRecordQCDecisionCommandIsNotConstructed if validation fails.
func (c RecordQCDecisionCommand) Validate() error {
	return c.guard.Validate(ErrRecordQCDecisionCommandIsNotConstructed)
}

// PackageID returns the identifier of the target package.
func (c RecordQCDecisionCommand) PackageID() kernel.UUID {
	return c.packageID
}

// Decision returns the inspector verdict.
func (c RecordQCDecisionCommand) Decision() packaging.QCDecision {
	return c.decision
}

// Notes returns the inspector remarks.
func (c RecordQCDecisionCommand) Notes() string {
	return c.notes
}

// Actor returns who issued the command.
func (c RecordQCDecisionCommand) Actor() kernel.Actor {
	return c.actor
}
