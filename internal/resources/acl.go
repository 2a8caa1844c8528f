package resources

import "strings"

// Permission names an operation guarded by the ACLs.
type Permission string

const (
	All Permission = "ALL"

	PkgView   Permission = "pkg_view"
	PkgsView  Permission = "pkgs_view"
	PkgCreate Permission = "pkg_create"
	PkgUpdate Permission = "pkg_update"
	PkgDelete Permission = "pkg_delete"

	UserList   Permission = "user_list"
	UserCreate Permission = "user_create"
	UserGet    Permission = "user_get"
	UserUpdate Permission = "user_update"
	UserDelete Permission = "user_delete"
)

// Principals.
const (
	Everyone      = "system.Everyone"
	Authenticated = "system.Authenticated"
	Admins        = "~admins"
	System        = "~system"
	Banned        = "~banned"
)

// UserPrincipal is the principal of the user with the given nickname.
func UserPrincipal(nick string) string { return "@" + nick }

// GroupPrincipal is the principal of the members of group.
func GroupPrincipal(group string) string { return "~" + group }

// Principals lists the principals of a request made by the user with the
// given nickname and groups, or of an anonymous request when nick is empty.
func Principals(nick string, groups []string) []string {
	out := []string{Everyone}
	if nick == "" {
		return out
	}
	out = append(out, Authenticated, UserPrincipal(nick))
	for _, g := range groups {
		out = append(out, GroupPrincipal(g))
	}
	return out
}

// SystemPrincipals are used for requests the server makes on its own behalf.
func SystemPrincipals() []string {
	return []string{Everyone, System}
}

// HasGroup reports whether principals include ~group.
func HasGroup(principals []string, group string) bool {
	return has(principals, GroupPrincipal(group))
}

// Nickname returns the nickname carried by principals, if any.
func Nickname(principals []string) string {
	for _, p := range principals {
		if strings.HasPrefix(p, "@") {
			return p[1:]
		}
	}
	return ""
}

// Action is the effect of a matching ACE.
type Action int

const (
	Allow Action = iota
	Deny
)

func (a Action) String() string {
	if a == Deny {
		return "Deny"
	}
	return "Allow"
}

// ACE is one access control entry.
type ACE struct {
	Action      Action
	Principal   string
	Permissions []Permission
}

func (e ACE) grants(p Permission) bool {
	for _, q := range e.Permissions {
		if q == All || q == p {
			return true
		}
	}
	return false
}

func allow(principal string, perms ...Permission) ACE {
	return ACE{Action: Allow, Principal: principal, Permissions: perms}
}

func deny(principal string, perms ...Permission) ACE {
	return ACE{Action: Deny, Principal: principal, Permissions: perms}
}

// Permits walks the node's ACL in order; the first entry whose principal is
// held and that names perm decides. No match denies.
func Permits(principals []string, n *Node, perm Permission) bool {
	for _, e := range n.ACL() {
		if has(principals, e.Principal) && e.grants(perm) {
			return e.Action == Allow
		}
	}
	return false
}

func has(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
