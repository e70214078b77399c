package validation

import (
	"CiviPortal/api/auth"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ExtractUserID parses the request body ONCE and extracts user_id, restoring
// the body for downstream handlers. JSON bodies are tried first, then form
// and multipart fields.
func ExtractUserID(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	defer r.Body.Close()

	var reqMap map[string]interface{}
	if err := json.Unmarshal(body, &reqMap); err == nil {
		if userID, ok := reqMap["user_id"].(string); ok && userID != "" {
			r.Body = io.NopCloser(bytes.NewBuffer(body))
			return userID, nil
		}
	}

	// Restore body so form parsing can read it
	r.Body = io.NopCloser(bytes.NewBuffer(body))
	ct := r.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(ct), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	} else {
		if err := r.ParseForm(); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	}

	r.Body = io.NopCloser(bytes.NewBuffer(body))
	return "", fmt.Errorf("user_id not found in request")
}

// ValidateSession checks if the user has an active session (in-memory check,
// no DB). Returns the session object or nil if not found.
func ValidateSession(userID string) *auth.UserSession {
	return auth.SessionForUser(userID)
}

// RoleAllows reports whether a session role satisfies one of the allowed
// capability roles. A super_admin passes every check.
func RoleAllows(role string, allowed ...string) bool {
	if role == "" {
		return false
	}
	if role == "super_admin" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(role, a) {
			return true
		}
	}
	return false
}
