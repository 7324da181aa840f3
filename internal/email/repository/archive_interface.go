package repository

import emaildomain "coldmail-backend/internal/email/domain"

// EmailArchive is the ordered store of generated emails, oldest first.
type EmailArchive interface {
	// Append stores the email, assigning an ID when empty, and returns the ID.
	Append(email *emaildomain.GeneratedEmail) string

	// List returns up to limit emails starting at offset. Out-of-range values are clamped.
	List(limit, offset int) []*emaildomain.GeneratedEmail

	// Delete removes the email with the given ID and reports whether it existed.
	Delete(id string) bool

	// Snapshot returns a copy of every email in archive order.
	Snapshot() []*emaildomain.GeneratedEmail

	Count() int
}
