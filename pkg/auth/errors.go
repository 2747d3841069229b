package auth

import "fmt"

// APIError is returned when the Identity Toolkit or secure token endpoint
// answers with a non-success status. Message carries the upstream error
// code string, e.g. "EMAIL_EXISTS" or "INVALID_PASSWORD".
type APIError struct {
	Route   string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth: %s returned status %d: %s", e.Route, e.Status, e.Message)
	}

	return fmt.Sprintf("auth: %s returned status %d", e.Route, e.Status)
}
