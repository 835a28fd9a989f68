// Package utils provides decorators that are shared by all ledger operations.
package utils
