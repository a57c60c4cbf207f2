package chat

// IsValidName reports whether candidate may be claimed as a display name:
// non-empty and ASCII alphanumeric only. Comparison elsewhere is
// case-sensitive; "Bob" and "bob" are distinct users.
func IsValidName(candidate string) bool {
	if len(candidate) == 0 {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
