// Package payment holds helpers for payment references and currency display.
package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateReference builds a unique payment reference of the form
// DEPT<code>-<yyyymmdd>-<8 hex chars>. The department code comes from the
// first three characters of the matric number; "GEN" when unavailable.
func GenerateReference(departmentCode string) string {
	if departmentCode == "" {
		departmentCode = "GEN"
	}
	date := time.Now().Format("20060102")

	buf := make([]byte, 4)
	// rand.Read only fails when the platform entropy source is broken
	_, _ = rand.Read(buf)
	random := strings.ToUpper(hex.EncodeToString(buf))

	return fmt.Sprintf("DEPT%s-%s-%s", strings.ToUpper(departmentCode), date, random)
}

// DepartmentCodeFromMatric extracts the department code prefix from a matric
// number.
func DepartmentCodeFromMatric(matricNumber string) string {
	if len(matricNumber) < 3 {
		return "GEN"
	}
	return matricNumber[:3]
}
