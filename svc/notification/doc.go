// Package notification stores in-app notifications and mails them when asked.
//
// A Gate refuses a notification when the same user already received one of
// the same type within the dedup interval. The check is best effort: two
// concurrent creates may both pass. Email delivery is best effort too; a
// failed send is logged and the stored notification is kept.
package notification
