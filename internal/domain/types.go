package domain

import "strconv"

// ID is used across domain entities.
type ID = int64

// Principal carries the authenticated identity attached to a request.
type Principal struct {
	UserID ID     `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IDString renders an id the way ownership checks compare it.
func IDString(id ID) string {
	return strconv.FormatInt(id, 10)
}

// User roles.
const (
	RoleFarmer          = "farmer"
	RoleBuyer           = "buyer"
	RoleSeller          = "seller"
	RoleBoth            = "both"
	RoleServiceProvider = "service_provider"
)

// SellingRoles may publish crop listings.
var SellingRoles = []string{RoleFarmer, RoleSeller, RoleBoth}

// BuyingRoles may request a seller's contact details.
var BuyingRoles = []string{RoleBuyer, RoleBoth}
