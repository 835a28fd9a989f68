// Package remit implements a two party escrow: a funder locks value under a
// puzzle derived from two secrets, and whoever presents the matching secret
// pair may claim that value exactly once.
//
// The ledger itself lives in x/remittance. This package holds the shared
// types: addresses, conditions, storage interfaces and context helpers.
package remit
