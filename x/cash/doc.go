/*
Package cash keeps the single-asset wallet balances backing remittance notes.

Every address owns at most one wallet. Value only moves between wallets
through the Controller, which checks balances and overflows and notifies a
receiver registered for the destination address after a transfer was
stored. A receiver may reject the transfer or call back into other
extensions using the same store.
*/
package cash
