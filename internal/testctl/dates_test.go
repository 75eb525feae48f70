package testctl

import "testing"

func TestIsValidDate(t *testing.T) {
	cases := map[string]bool{
		"2024-12-31": true,
		"2024-02-29": true, // leap year
		"2023-02-29": false,
		"2024-02-30": false,
		"12-31-2024": false,
		"2024-1-05":  false,
		"2024-01-5":  false,
		"2024/01/05": false,
		"":           false,
		"2024-13-01": false,
		"2024-00-10": false,
	}
	for input, expect := range cases {
		if got := IsValidDate(input); got != expect {
			t.Fatalf("IsValidDate(%q) = %v, expected %v", input, got, expect)
		}
	}
}
