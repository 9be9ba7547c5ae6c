// Package model defines the records returned by terminal operations.
//
// Conventions:
//   - Prices, volumes and money amounts: float64 as sent by the terminal
//   - Timestamps: int64 seconds since Unix epoch, except fields suffixed Ms
//   - Tickets and magic numbers: int64
//   - Instrument: universal name when the instrument map knows the broker name,
//     the broker name otherwise
package model
