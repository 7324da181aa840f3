package domain

import "time"

// DateLayout is the minute-resolution timestamp stored on every generated email.
const DateLayout = "2006-01-02 15:04"

// GeneratedEmail is one archived email.
type GeneratedEmail struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Recipient string `json:"recipient"`
	Company   string `json:"company"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

// CreatedAt parses Date in loc.
func (e *GeneratedEmail) CreatedAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}
