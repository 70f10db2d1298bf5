package models

// RoleType defines the admin role type
type RoleType string

const (
	RoleAdmin      RoleType = "admin"
	RoleSuperAdmin RoleType = "superAdmin"
)

// IsValid reports whether the role is one of the enumerated values.
func (r RoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// DueType identifies which due a transaction pays for.
type DueType string

const (
	DueCollegeFee    DueType = "collegeFee"
	DueDepartmentFee DueType = "departmentFee"
	DueHostel        DueType = "hostel"
	DueStudentUnion  DueType = "studentUnion"
)

// IsValid reports whether the due type is one of the enumerated values.
func (d DueType) IsValid() bool {
	switch d {
	case DueCollegeFee, DueDepartmentFee, DueHostel, DueStudentUnion:
		return true
	}
	return false
}

// PaymentMethod is how the student paid.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
)

// IsValid reports whether the payment method is one of the enumerated values.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentBankTransfer || m == PaymentCard
}

// TransactionStatus tracks the admin review outcome of a transaction.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusSuccessful TransactionStatus = "successful"
	StatusFailed     TransactionStatus = "failed"
)

// IsValid reports whether the status is one of the enumerated values.
func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusSuccessful || s == StatusFailed
}
