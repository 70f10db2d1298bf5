package models

import "time"

// Transaction defines a proof-of-payment record based on the 'transactions' table
type Transaction struct {
	ID            int64             `json:"id" db:"id"`
	Amount        float64           `json:"amount" db:"amount"`
	College       string            `json:"college" db:"college"`
	Department    string            `json:"department,omitempty" db:"department"`
	DueType       DueType           `json:"dueType" db:"due_type"`
	Email         string            `json:"email" db:"email"`
	FullName      string            `json:"fullName" db:"full_name"`
	Hostel        *string           `json:"hostel,omitempty" db:"hostel"`
	Level         *string           `json:"level,omitempty" db:"level"`
	MatricNumber  string            `json:"matricNumber" db:"matric_number"`
	PaymentMethod PaymentMethod     `json:"paymentMethod" db:"payment_method"`
	PhoneNumber   string            `json:"phoneNumber" db:"phone_number"`
	ProofURL      string            `json:"proofUrl" db:"proof_url"`
	ReceiptName   *string           `json:"receiptName,omitempty" db:"receipt_name"`
	Reference     string            `json:"reference" db:"reference"` // unique payment reference
	RoomNumber    *string           `json:"roomNumber,omitempty" db:"room_number"`
	Status        TransactionStatus `json:"status" db:"status"`
	StudentType   *string           `json:"studentType,omitempty" db:"student_type"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`
}
