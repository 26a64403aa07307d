// Package ident generates the prefixed identifiers stored with every document.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// Prefixes of persisted entities.
const (
	Invoice          = "inv"
	Organization     = "org"
	OrganizationPlan = "opl"
	Plan             = "pln"
	PlanFeature      = "plf"
	Coupon           = "cou"
	Order            = "ord"
	Product          = "prd"
	Additional       = "pad"
	AdditionalItem   = "adi"
	Notification     = "ntf"
	User             = "usr"
	ExternalRef      = "ext"
	FreeRef          = "free"
)

// New returns prefix_<uuid v4>.
func New(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Derive returns a stable prefix_<uuid v5> for key, so that seeded records keep
// their identifier across loads.
func Derive(prefix, key string) string {
	return prefix + "_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(prefix+":"+key)).String()
}

// HasPrefix reports whether id was generated with prefix and carries a valid uuid.
func HasPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	if !ok {
		return false
	}
	return uuid.Validate(rest) == nil
}
