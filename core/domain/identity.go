package domain

import "slices"

const ScopeUsersWrite = "users:write"

// Identity is the authenticated caller of the HTTP API.
type Identity struct {
	Subject string
	Scopes  []string
}

func (i *Identity) HasScope(scope string) bool {
	return slices.Contains(i.Scopes, scope)
}

func (i *Identity) CanWriteUsers() bool {
	return i.HasScope(ScopeUsersWrite)
}
