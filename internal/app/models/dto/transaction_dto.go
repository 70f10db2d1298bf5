package dto

// CreateTransactionRequest represents a proof-of-payment submission
type CreateTransactionRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	College       string  `json:"college" binding:"required"`
	Department    string  `json:"department"`
	DueType       string  `json:"dueType" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	FullName      string  `json:"fullName" binding:"required"`
	Hostel        string  `json:"hostel"`
	Level         string  `json:"level"`
	MatricNumber  string  `json:"matricNumber" binding:"required"`
	PaymentMethod string  `json:"paymentMethod"`
	PhoneNumber   string  `json:"phoneNumber" binding:"required"`
	ProofURL      string  `json:"proofUrl" binding:"required"`
	ReceiptName   string  `json:"receiptName"`
	RoomNumber    string  `json:"roomNumber"`
	StudentType   string  `json:"studentType"`
}

// UpdateTransactionStatusRequest marks a transaction reviewed
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListTransactionsParams holds optional listing filters
type ListTransactionsParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}
