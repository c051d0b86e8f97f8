package user

import (
	"fmt"
	"strings"
)

// Departments is the fixed enumeration every user and record belongs to.
var Departments = []string{
	"Finance",
	"HR",
	"Sales",
	"Planning",
	"Digital Transformation",
	"Data & AI",
}

func ValidDepartment(d string) bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts the legacy role strings still sent by older clients.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
