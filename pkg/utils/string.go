package utils

// Truncate caps s at maxLen bytes, appending "..." when it was cut.
// Keeps streamed event payloads to a single readable line.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
