package registration

import (
	"time"

	"github.com/trezcool/courseportal/core/schedule"
)

// Statuses
const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Status string

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Cart is a student's selection for the semester and where it is in the review process.
type Cart struct {
	StudentID   string             `json:"student_id"`
	Sections    schedule.Selection `json:"sections"`
	Status      Status             `json:"status"`
	Reference   string             `json:"reference,omitempty"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"` // UTC
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`  // UTC
	UpdatedAt   time.Time          `json:"updated_at"`             // UTC
}

func newCart(studentID string) Cart {
	return Cart{
		StudentID: studentID,
		Sections:  schedule.Selection{},
		Status:    StatusDraft,
	}
}

func (c Cart) IsEditable() bool {
	return c.Status == StatusDraft || c.Status == StatusRejected
}

func (c Cart) TotalCredits() int {
	return c.Sections.TotalCredits()
}

// Summary is the cart as shown by the registration page.
type Summary struct {
	Cart
	TotalCredits     int                     `json:"total_credits"`
	MaxCredits       int                     `json:"max_credits"`
	RemainingCredits int                     `json:"remaining_credits"`
	Conflicts        []schedule.ConflictPair `json:"conflicts"`
}
