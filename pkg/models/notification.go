package models

// Recipient is a notification target for workflow emails.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

// SendFailure records a recipient whose send did not succeed.
type SendFailure struct {
	Recipient Recipient `json:"recipient"`
	Error     string    `json:"error"`
}

// DispatchSummary aggregates per-recipient outcomes for one notification
// round. Invariant: Sent + len(Failures) == len(Recipients).
type DispatchSummary struct {
	Sent       int           `json:"sent"`
	Recipients []Recipient   `json:"recipients"`
	Failures   []SendFailure `json:"failures"`
	Success    bool          `json:"success"`
}

// DefaultRecipients is the operator's standing distribution list for
// maintenance approvals, used when no explicit list is configured.
func DefaultRecipients() []Recipient {
	return []Recipient{
		{Name: "Maintenance Manager", Email: "maintenance@skyops.example", Role: "maintenance_manager"},
		{Name: "Director of Operations", Email: "ops@skyops.example", Role: "operations_director"},
		{Name: "Compliance Officer", Email: "compliance@skyops.example", Role: "compliance_officer"},
	}
}
