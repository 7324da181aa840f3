package repository

import (
	"sync"

	emaildomain "coldmail-backend/internal/email/domain"

	"github.com/google/uuid"
)

type memoryArchive struct {
	mu     sync.RWMutex
	emails []*emaildomain.GeneratedEmail
}

// NewMemoryArchive creates an empty in-process archive. Contents are lost on restart.
func NewMemoryArchive() EmailArchive {
	return &memoryArchive{}
}

func (a *memoryArchive) Append(email *emaildomain.GeneratedEmail) string {
	cp := *email
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.emails = append(a.emails, &cp)
	return cp.ID
}

func (a *memoryArchive) List(limit, offset int) []*emaildomain.GeneratedEmail {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := len(a.emails)
	start := min(max(offset, 0), n)
	end := start + min(max(limit, 0), n-start)
	return copyEmails(a.emails[start:end])
}

func (a *memoryArchive) Delete(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, e := range a.emails {
		if e.ID == id {
			a.emails = append(a.emails[:i:i], a.emails[i+1:]...)
			return true
		}
	}
	return false
}

func (a *memoryArchive) Snapshot() []*emaildomain.GeneratedEmail {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyEmails(a.emails)
}

func (a *memoryArchive) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.emails)
}

func copyEmails(src []*emaildomain.GeneratedEmail) []*emaildomain.GeneratedEmail {
	out := make([]*emaildomain.GeneratedEmail, len(src))
	for i, e := range src {
		cp := *e
		out[i] = &cp
	}
	return out
}
