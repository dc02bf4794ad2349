// Package droptag provides the DropTag aggregate, the physical identity label bound to one
// package, and TagIdentifier, the secondary RFID/etch/barcode values that resolve to a tag.
//
// A drop tag never moves ahead of its package: every transition into SEALED or later checks
// the package status against the custody table in custody.go before mutating.
package droptag
