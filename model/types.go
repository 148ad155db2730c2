package model

// InputRecord is the decrypted task input supplied by the host.
type InputRecord struct {
	PublicMetadata PublicMetadata `json:"public_metadata"`
	PrivateData    PrivateData    `json:"private_data"`
}

// PublicMetadata carries the identifiers that are safe to bind on-chain.
type PublicMetadata struct {
	// ThreadID correlates the computation with an on-chain request.
	// It is passed through byte-for-byte.
	ThreadID string `json:"threadId"`
}

// PrivateData carries the confidential borrower figures.
type PrivateData struct {
	LoanAmount      float64 `json:"loanAmount"`
	CollateralValue float64 `json:"collateralValue"`
	CreditScore     float64 `json:"creditScore"`
}

// RiskResult is the outcome of the lending rule.
type RiskResult struct {
	Approved  bool  `json:"approved"`
	RiskScore int   `json:"risk_score"`
	Timestamp int64 `json:"timestamp"`
}

// CallbackDocument is the JSON written to the host output directory.
type CallbackDocument struct {
	CallbackData string `json:"callback-data"`
}
