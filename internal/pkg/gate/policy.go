package gate

import (
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// DefaultPolicies are written when the policy store is empty.
var DefaultPolicies = [][]string{
	{RoleMagasin, "repair", "*"},
	{RoleAdmin, "repair", "*"},
	{RoleAdminFull, "repair", "*"},
	{RoleAdmin, "consignment", "*"},
	{RoleAdminFull, "consignment", "*"},
	{RoleAdmin, "marketplace", ActRead},
	{RoleAdminFull, "marketplace", "*"},
}

// NewEnforcer builds the role enforcer. A nil adapter keeps policies in
// memory. When no policy is stored yet, DefaultPolicies are added.
func NewEnforcer(adapter persist.Adapter) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	var e *casbin.Enforcer
	if adapter == nil {
		e, err = casbin.NewEnforcer(m)
	} else {
		e, err = casbin.NewEnforcer(m, adapter)
	}
	if err != nil {
		return nil, err
	}

	existing, err := e.GetPolicy()
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		if _, err := e.AddPolicies(DefaultPolicies); err != nil {
			return nil, err
		}
	}

	return e, nil
}
