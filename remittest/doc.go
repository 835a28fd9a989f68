// Package remittest provides helpers for testing code that is using the
// remittance ledger packages.
package remittest
