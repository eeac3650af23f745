package auth

import "shopcore/internal/model"

// Operation names a mutating action subject to role checks. Reads are
// public and never consult this table.
type Operation string

const (
	OpCategoryWrite Operation = "category:write"
	OpProductWrite  Operation = "product:write"
	OpProfileWrite  Operation = "profile:write"
)

// rolePermissions enumerates the allow-set per operation. Category
// mutations are admin-only; product and image mutations are open to
// sellers and admins; any authenticated user may edit their own profile.
var rolePermissions = map[Operation][]model.Role{
	OpCategoryWrite: {model.RoleAdmin},
	OpProductWrite:  {model.RoleSeller, model.RoleAdmin},
	OpProfileWrite:  {model.RoleCustomer, model.RoleSeller, model.RoleAdmin},
}

// Can reports whether the given role is allowed to perform op.
// Evaluation is stateless and depends only on its arguments.
func Can(role model.Role, op Operation) bool {
	allowed, ok := rolePermissions[op]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
