// Package trace provides the immutable custody-chain record written by every mutating
// operation, and its tamper-evident content hash.
package trace
