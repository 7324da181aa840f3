package usecase

import (
	"sort"
	"strings"
	"time"

	emaildomain "coldmail-backend/internal/email/domain"
	"coldmail-backend/internal/email/dto"
)

const topCompaniesLimit = 10

// Aggregate computes the analytics for one snapshot of the archive. Dates are
// parsed in now's location; entries with an unparseable date count towards the
// totals, word and company metrics but not the time-based ones.
func Aggregate(emails []*emaildomain.GeneratedEmail, now time.Time) *dto.AnalyticsResponse {
	resp := &dto.AnalyticsResponse{
		TotalEmails:   len(emails),
		EmailOverTime: []dto.DateCount{},
		TopCompanies:  []dto.CompanyCount{},
	}
	if len(emails) == 0 {
		return resp
	}

	weekAgo := now.AddDate(0, 0, -7)
	words := 0
	dateIndex := make(map[string]int)
	companyIndex := make(map[string]int)

	for _, e := range emails {
		words += len(strings.Fields(e.Content))

		if i, ok := companyIndex[e.Company]; ok {
			resp.TopCompanies[i].Count++
		} else {
			companyIndex[e.Company] = len(resp.TopCompanies)
			resp.TopCompanies = append(resp.TopCompanies, dto.CompanyCount{Company: e.Company, Count: 1})
		}

		created, err := e.CreatedAt(now.Location())
		if err != nil {
			continue
		}
		if created.After(weekAgo) {
			resp.WeeklyEmails++
		}
		day := created.Format(time.DateOnly)
		if i, ok := dateIndex[day]; ok {
			resp.EmailOverTime[i].Count++
		} else {
			dateIndex[day] = len(resp.EmailOverTime)
			resp.EmailOverTime = append(resp.EmailOverTime, dto.DateCount{Date: day, Count: 1})
		}
	}

	resp.AvgLength = words / len(emails)

	// stable keeps first-appearance order among equal counts
	sort.SliceStable(resp.TopCompanies, func(i, j int) bool {
		return resp.TopCompanies[i].Count > resp.TopCompanies[j].Count
	})
	if len(resp.TopCompanies) > topCompaniesLimit {
		resp.TopCompanies = resp.TopCompanies[:topCompaniesLimit]
	}
	return resp
}
