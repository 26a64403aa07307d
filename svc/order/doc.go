// Package order prices and stores customer orders.
//
// A Composer turns a RequestOrder into priced StoredProduct snapshots: it
// expands add-on selections against the product's groups, enforces each
// group's selection bounds and embeds add-on prices into the product unit
// price. Plan-gated limits are checked through a LimitChecker. The Service
// persists composed orders and tracks their status and payments.
package order
