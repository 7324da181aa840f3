package usecase

import (
	"fmt"
	"testing"
	"time"

	emaildomain "coldmail-backend/internal/email/domain"
	"coldmail-backend/internal/email/dto"

	"github.com/stretchr/testify/assert"
)

var analyticsNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func saved(date, company, content string) *emaildomain.GeneratedEmail {
	return &emaildomain.GeneratedEmail{Date: date, Company: company, Content: content}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, analyticsNow)
	assert.Equal(t, &dto.AnalyticsResponse{
		EmailOverTime: []dto.DateCount{},
		TopCompanies:  []dto.CompanyCount{},
	}, got)
}

func TestAggregate_AvgLength(t *testing.T) {
	got := Aggregate([]*emaildomain.GeneratedEmail{
		saved("2025-03-20 10:00", "A", "one two three"),
		saved("2025-03-20 10:05", "B", "one  two\nthree four\tfive"),
	}, analyticsNow)
	assert.Equal(t, 4, got.AvgLength)
	assert.Equal(t, 2, got.TotalEmails)
}

func TestAggregate_TopCompanies(t *testing.T) {
	var emails []*emaildomain.GeneratedEmail
	for _, c := range []string{"A", "B", "A", "C", "B", "A"} {
		emails = append(emails, saved("2025-03-20 10:00", c, "x"))
	}
	got := Aggregate(emails, analyticsNow)
	assert.Equal(t, []dto.CompanyCount{{Company: "A", Count: 3}, {Company: "B", Count: 2}, {Company: "C", Count: 1}}, got.TopCompanies)
}

func TestAggregate_TopCompaniesTiesAndTruncation(t *testing.T) {
	var emails []*emaildomain.GeneratedEmail
	for i := 0; i < 12; i++ {
		emails = append(emails, saved("2025-03-20 10:00", fmt.Sprintf("c%02d", i), "x"))
	}
	emails = append(emails, saved("2025-03-20 10:00", "c11", "x"))

	got := Aggregate(emails, analyticsNow)
	assert.Len(t, got.TopCompanies, 10)
	assert.Equal(t, dto.CompanyCount{Company: "c11", Count: 2}, got.TopCompanies[0])
	assert.Equal(t, "c00", got.TopCompanies[1].Company)
	assert.Equal(t, "c08", got.TopCompanies[9].Company)
}

func TestAggregate_EmailOverTimeFirstAppearanceOrder(t *testing.T) {
	got := Aggregate([]*emaildomain.GeneratedEmail{
		saved("2025-03-19 09:00", "A", "x"),
		saved("2025-03-17 09:00", "A", "x"),
		saved("2025-03-19 18:30", "A", "x"),
	}, analyticsNow)
	assert.Equal(t, []dto.DateCount{{Date: "2025-03-19", Count: 2}, {Date: "2025-03-17", Count: 1}}, got.EmailOverTime)
}

func TestAggregate_Weekly(t *testing.T) {
	got := Aggregate([]*emaildomain.GeneratedEmail{
		saved("2025-03-20 11:59", "A", "x"),
		saved("2025-03-13 12:01", "A", "x"), // just inside the week
		saved("2025-03-13 12:00", "A", "x"), // exactly 7 days, excluded
		saved("2025-03-01 08:00", "A", "x"),
	}, analyticsNow)
	assert.Equal(t, 2, got.WeeklyEmails)
	assert.Equal(t, 4, got.TotalEmails)
}

func TestAggregate_MalformedDate(t *testing.T) {
	got := Aggregate([]*emaildomain.GeneratedEmail{
		saved("yesterday-ish", "A", "one two"),
		saved("2025-03-20 10:00", "B", "one two three four"),
	}, analyticsNow)

	assert.Equal(t, 2, got.TotalEmails)
	assert.Equal(t, 1, got.WeeklyEmails)
	assert.Equal(t, 3, got.AvgLength)
	assert.Equal(t, []dto.DateCount{{Date: "2025-03-20", Count: 1}}, got.EmailOverTime)
	assert.Len(t, got.TopCompanies, 2)
}
