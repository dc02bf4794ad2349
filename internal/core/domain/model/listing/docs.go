// Package listing provides the Listing aggregate: a shipment manifest that groups sealed drop
// tags into an ordered multi-stop route and carries them through load, departure, delivery and
// closure.
//
// Key business rules:
//   - membership changes only while DRAFT or READY, and any change sends READY back to DRAFT
//   - totals are recomputed from the live member tags on every membership change
//   - every member sits in exactly one stop before the listing can be finalized
//   - departure re-checks live pieces against the stored total and refuses on a mismatch
package listing
