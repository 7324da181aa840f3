package dto

import emaildomain "coldmail-backend/internal/email/domain"

// GenerateEmailRequest is the body of POST /api/email/generate.
type GenerateEmailRequest struct {
	SenderCompany      string  `json:"sender_company"`
	TargetCompany      string  `json:"target_company"`
	Industry           string  `json:"industry"`
	PersonName         string  `json:"person_name"`
	Role               string  `json:"role"`
	EmailSubject       string  `json:"email_subject"`
	Tone               string  `json:"tone"`
	Length             string  `json:"length"`
	CustomInstructions *string `json:"custom_instructions"`
	SessionID          *string `json:"session_id"`
}

// ToDomain converts the body into a generation request.
func (r *GenerateEmailRequest) ToDomain() *emaildomain.GenerationRequest {
	req := &emaildomain.GenerationRequest{
		SenderCompany: r.SenderCompany,
		TargetCompany: r.TargetCompany,
		Industry:      r.Industry,
		PersonName:    r.PersonName,
		Role:          r.Role,
		EmailSubject:  r.EmailSubject,
		Tone:          r.Tone,
		Length:        r.Length,
	}
	if r.CustomInstructions != nil {
		req.CustomInstructions = *r.CustomInstructions
	}
	if r.SessionID != nil {
		req.SessionID = *r.SessionID
	}
	req.Normalize()
	return req
}

type GenerateEmailResponse struct {
	EmailText string `json:"email_text"`
	Subject   string `json:"subject"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// AnalyticsResponse is the body of GET /api/analytics.
type AnalyticsResponse struct {
	TotalEmails   int            `json:"total_emails"`
	WeeklyEmails  int            `json:"weekly_emails"`
	AvgLength     int            `json:"avg_length"`
	EmailOverTime []DateCount    `json:"email_over_time"`
	TopCompanies  []CompanyCount `json:"top_companies"`
}
