package service

import "strings"

const passwordSpecialChars = "<>@!#$%^&"

// CheckPasswordStrength applies the registration password policy and returns
// every rule the candidate breaks. An empty slice means the password passes.
//
// The policy is independent of the lifecycle engine; Register just folds the
// returned reasons into its validation message.
func CheckPasswordStrength(password string) []string {
	var reasons []string

	if len(password) < 8 {
		reasons = append(reasons, "Minimum password length should be 8")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		reasons = append(reasons, "Password should be alphanumeric")
	}

	if !strings.ContainsAny(password, passwordSpecialChars) {
		reasons = append(reasons, "Password should contain special chars")
	}

	return reasons
}
