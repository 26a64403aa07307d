// Package coupon implements discount coupons: absolute or percentage
// discounts with an expiry date and a usage limit.
//
// Usage is incremented with an optimistic compare-and-set on usage_count.
// Engine.UpdateUsage retries a lost race up to three times before returning
// ErrConflict, so usage_count never exceeds the limit even when many
// processes redeem the same coupon at once.
package coupon
