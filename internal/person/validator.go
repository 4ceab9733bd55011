package person

import (
	"strings"

	"github.com/aquamarinepk/nab"
)

// ValidID reports whether id can key a record: a strictly positive integer.
func ValidID(id int) bool {
	return id > 0
}

// ValidName reports whether name is non-empty after trimming.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// ValidPhone reports whether phone is non-empty after trimming.
func ValidPhone(phone string) bool {
	return strings.TrimSpace(phone) != ""
}

// ValidAddress reports whether address is non-empty after trimming.
func ValidAddress(address string) bool {
	return strings.TrimSpace(address) != ""
}

// Validate collects field-level problems for a Person value. An empty result
// means the value is well formed.
func Validate(p Person) []nab.ValidationError {
	var details []nab.ValidationError
	if !ValidID(p.ID) {
		details = append(details, nab.ValidationError{Field: "id", Message: "must be a positive integer"})
	}
	if !ValidName(p.Name) {
		details = append(details, nab.ValidationError{Field: "name", Message: "is required"})
	}
	if !ValidPhone(p.Phone) {
		details = append(details, nab.ValidationError{Field: "phone", Message: "is required"})
	}
	if !ValidAddress(p.Address) {
		details = append(details, nab.ValidationError{Field: "address", Message: "is required"})
	}
	return details
}
