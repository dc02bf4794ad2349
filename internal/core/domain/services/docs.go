// Package services provides domain services that coordinate more than one aggregate.
//
// The package includes:
//   - TagIssuer: validates a package's material and issues a DRAFT drop tag for it
//   - PackageSealer: seals a package once its active tags are applied, cascading the tags
//   - Custody: moves a tag and its package together through the station transitions and
//     the listing departure and delivery cascades
//
// Every cascade is explicit: the services return the secondary entities they moved as
// trace.Cascade entries so callers can record them and tests can assert on them.
package services
