// Package feedback handles customer inquiries and suggestions: public
// creation with a best-effort admin notification, admin moderation, and the
// reply flow that emails the customer.
package feedback

import "time"

type InquiryStatus string

const (
	InquiryPending InquiryStatus = "pending"
	InquiryReplied InquiryStatus = "replied"
)

type Inquiry struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Message   string        `json:"message"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type Suggestion struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
