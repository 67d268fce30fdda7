package partner

import (
	"strings"

	"github.com/salespos/backend/internal/domain/shared"
)

// PersonType distinguishes individual (CPF) from company (CNPJ) customers
type PersonType string

const (
	PersonTypeIndividual PersonType = "INDIVIDUAL"
	PersonTypeCompany    PersonType = "COMPANY"
)

// NormalizeDocument strips formatting characters from a CPF/CNPJ
func NormalizeDocument(document string) string {
	var b strings.Builder
	for _, r := range document {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateDocument validates a CPF or CNPJ and returns the person type.
// The document may contain formatting (dots, dashes, slashes).
func ValidateDocument(document string) (PersonType, error) {
	digits := NormalizeDocument(document)
	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid CPF")
		}
		return PersonTypeIndividual, nil
	case 14:
		if !validCNPJ(digits) {
			return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid CNPJ")
		}
		return PersonTypeCompany, nil
	default:
		return "", shared.NewDomainError("VALIDATION_ERROR", "Document must be a CPF (11 digits) or CNPJ (14 digits)")
	}
}

func allSameDigits(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func validCPF(digits string) bool {
	if allSameDigits(digits) {
		return false
	}
	d1 := checkDigit(digits, []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	if d1 != int(digits[9]-'0') {
		return false
	}
	d2 := checkDigit(digits, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	return d2 == int(digits[10]-'0')
}

func validCNPJ(digits string) bool {
	if allSameDigits(digits) {
		return false
	}
	d1 := checkDigit(digits, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	if d1 != int(digits[12]-'0') {
		return false
	}
	d2 := checkDigit(digits, []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return d2 == int(digits[13]-'0')
}
