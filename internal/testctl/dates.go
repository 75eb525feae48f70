package testctl

import "time"

const dateLayout = "2006-01-02"

// IsValidDate accepts only real calendar dates written exactly as
// YYYY-MM-DD. The round trip through time.Parse rejects both wrong
// formats and normalized impossibilities like 2024-02-30.
func IsValidDate(s string) bool {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(dateLayout) == s
}
