package payment

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var referencePattern = regexp.MustCompile(`^DEPT[A-Z0-9]{3}-\d{8}-[0-9A-F]{8}$`)

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference("CSC")
	assert.Regexp(t, referencePattern, ref)
	assert.Contains(t, ref, time.Now().Format("20060102"))
}

func TestGenerateReferenceDefaultsDepartmentCode(t *testing.T) {
	ref := GenerateReference("")
	assert.Regexp(t, referencePattern, ref)
	assert.Contains(t, ref, "DEPTGEN-")
}

func TestGenerateReferenceUppercasesCode(t *testing.T) {
	ref := GenerateReference("csc")
	assert.Contains(t, ref, "DEPTCSC-")
}

func TestGenerateReferenceUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref := GenerateReference("CSC")
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
}

func TestDepartmentCodeFromMatric(t *testing.T) {
	assert.Equal(t, "CSC", DepartmentCodeFromMatric("CSC/2021/001"))
	assert.Equal(t, "GEN", DepartmentCodeFromMatric("AB"))
	assert.Equal(t, "GEN", DepartmentCodeFromMatric(""))
}

func TestFormatNaira(t *testing.T) {
	assert.Equal(t, "₦1,500.00", FormatNaira(1500))
	assert.Equal(t, "₦999.50", FormatNaira(999.5))
	assert.Equal(t, "₦1,234,567.89", FormatNaira(1234567.89))
}
