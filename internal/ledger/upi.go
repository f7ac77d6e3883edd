package ledger

import "regexp"

// localpart@handle, handle at least 3 letters
var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{3,}$`)

func ValidUPIID(id string) bool {
	return upiIDPattern.MatchString(id)
}
