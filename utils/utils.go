package utils

import (
	rndm "math/rand"
	"net/http"
	"os"

	"voltwear/globals"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// --- Request Helpers ---

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRolesFromRequest(r *http.Request) []string {
	roles, ok := r.Context().Value(globals.RoleKey).([]string)
	if !ok {
		return nil
	}
	return roles
}

// GetSessionIDFromRequest returns the browsing-session id the client sent,
// falling back to the session cookie set on first visit.
func GetSessionIDFromRequest(r *http.Request) string {
	if sid := r.Header.Get(globals.SessionHeader); sid != "" {
		return sid
	}
	if c, err := r.Cookie("cart_session"); err == nil {
		return c.Value
	}
	return ""
}

// --- Directory Helper ---

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
