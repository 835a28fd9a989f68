/*
Package remittance implements a secret-locked remittance escrow ledger.

A funder locks value under a puzzle derived from two secrets. Whoever later
presents the correct pair of secrets claims the value, exactly once.

The algorithm is as follows:
1. Funder chooses two secrets and delivers them to the recipient off the
ledger.
2. Funder derives the puzzle out of the secrets and creates a note for it,
moving the amount into the ledger custody.
3. Anyone presenting both secrets in the same order claims the note. The note
is closed before any value leaves the custody, so a second or a reentrant
claim of the same note always fails.
4. Depending on the configuration the value is either paid to the claimant
directly, or credited to the claimant pending balance which is paid out by a
separate withdrawal.

The ledger assumes that operations on a store are serialized by the caller.
*/
package remittance
