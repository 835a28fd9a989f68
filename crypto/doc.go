/*
Package crypto provides the ed25519 keys that identify signers of ledger
operations.

A private key file contains the raw 64 byte ed25519 private key. The public
key is exposed as a condition of the "sigs/ed25519" type, so that an address
can be computed for any signer.
*/
package crypto
