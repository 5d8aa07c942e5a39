package service

import (
	"fmt"
	"strings"
	"time"
)

// deriveContentKey builds the collision-resistant storage key for an
// uploaded file: owner scope, nanosecond timestamp, the file's index in
// its request, and the sanitized filename. Two files with the same name
// in one batch differ by index; retries differ by timestamp.
func deriveContentKey(ownerID string, at time.Time, index int, fileName string) string {
	return fmt.Sprintf("%s/%d-%d-%s", ownerID, at.UnixNano(), index, sanitizeFileName(fileName))
}

// sanitizeFileName replaces every character other than letters, digits,
// '.' and '-' with '_' so the key stays safe for any backing store.
func sanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
