// Package packaging provides the Package aggregate: a physical bundle of cut material
// prepared, QC-gated and sealed as one shipping unit.
//
// The package includes:
//   - Package: the aggregate root owning items, totals, QC gating and the seal stamp
//   - Item: one line of material (grade, form, heat, pieces, weight, dimensions)
//   - Status and QCStatus: the lifecycle and quality-control state machines
//
// Key business rules:
//   - Items may only be added while the package is OPEN or PACKING
//   - Pieces and net weight always equal the sum over items
//   - A package is sealed only from QC_RELEASED with a RELEASED or CONDITIONAL QC decision
//   - The seal identifier is written once and never reassigned
//   - Station cascades (stage, load, ship, deliver) only move a package forward
package packaging
