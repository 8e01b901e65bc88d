// internal/app/system/inputval/validators.go
package inputval

import (
	"net/mail"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles an employee account may hold.
var allowedRoles = []string{"admin", "supervisor", "staff"}

// IsValidEmail reports whether s is a single bare RFC 5322 address.
// Display-name forms like "Name <a@b.c>" are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-char hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidTimeOfDay reports whether s parses as HH:MM on a 24h clock.
// Shift boundaries are stored in this form.
func IsValidTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

// IsValidRole reports whether s (any case) names a console role.
func IsValidRole(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range allowedRoles {
		if s == r {
			return true
		}
	}
	return false
}

// AllowedRolesList returns the console roles in display order.
func AllowedRolesList() []string {
	out := make([]string, len(allowedRoles))
	copy(out, allowedRoles)
	return out
}
