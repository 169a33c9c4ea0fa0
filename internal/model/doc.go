// Package model defines shared data types used across the desk core.
//
// Conventions:
//   - Money and quantities: decimal.Decimal (never float64)
//   - Timestamps: time.Time in UTC
//   - Enumerations: typed string constants matching the wire vocabulary
//
// All wire-format translation (snake_case JSON) happens at the network
// boundary in internal/api and internal/connection; these types are the
// single canonical in-memory representation.
package model
