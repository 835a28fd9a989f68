/*
Package sigs authenticates ledger callers by their ed25519 signatures.

A caller signs the canonical bytes of the operation it requests. Once the
signature is verified, the signer condition is stored in the context and
can be read back with the Authenticate implementation of x.Authenticator.
*/
package sigs
