// Package mongostore implements the billing ledgers on MongoDB.
//
// Status changes and plan truncation are single conditional updates, so
// concurrent writers converge without transactions.
package mongostore
