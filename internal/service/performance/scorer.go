package performance

import (
	"cmp"
	"slices"
	"strings"

	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/performance"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// Performance tiers on average worked hours per punched day. The individual
// report weighs them 30/20/10; here they are rescaled to the 40 point scale.
var (
	highTierHours = decimal.NewFromInt(9)
	midTierHours  = decimal.NewFromInt(8)

	highTierScore = decimal.NewFromInt(performance.MaxPerformanceScore)
	midTierScore  = decimal.RequireFromString("26.67")
	lowTierScore  = decimal.RequireFromString("13.33")

	hundred = decimal.NewFromInt(100)
	sixty   = decimal.NewFromInt(60)
)

type Scorer struct {
	excludedRoleKeywords []string
}

// NewScorer builds a scorer whose leaderboard winner skips roles containing
// any of keywords, compared case-insensitively.
func NewScorer(keywords []string) *Scorer {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return &Scorer{excludedRoleKeywords: normalized}
}

func (s *Scorer) Score(emp employee.Employee, agg timesheet.AttendanceAggregate) performance.ScoreRecord {
	rec := performance.ScoreRecord{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.FullName,
		Role:             emp.Role,
		PeriodStart:      agg.PeriodStart,
		PeriodEnd:        agg.PeriodEnd,
		TotalWorkingDays: agg.TotalWorkingDays,
		PresentDays:      agg.PresentDays,
		AbsentDays:       agg.AbsentDays,
		TravelDays:       agg.TravelDays,
		BonusDays:        agg.BonusDays,
		AttendanceScore:  decimal.Zero,
		BonusScore:       decimal.Zero,
		AttendanceRate:   decimal.Zero,
	}

	totalHours := decimal.NewFromInt(int64(agg.TotalMinutes)).Div(sixty)
	avgHours := decimal.Zero
	if agg.HoursDays > 0 {
		avgHours = totalHours.Div(decimal.NewFromInt(int64(agg.HoursDays)))
	}
	rec.TotalHours = totalHours.Round(2)
	rec.AvgHoursPerDay = avgHours.Round(2)
	rec.OvertimeHours = decimal.NewFromInt(int64(agg.OvertimeMinutes)).Div(sixty).Round(2)

	if agg.TotalWorkingDays > 0 {
		working := decimal.NewFromInt(int64(agg.TotalWorkingDays))
		rec.AttendanceRate = decimal.Min(hundred,
			decimal.NewFromInt(int64(agg.PresentDays)).Mul(hundred).Div(working)).Round(2)
		rec.AttendanceScore = proportional(agg.PresentDays, agg.TotalWorkingDays, performance.MaxAttendanceScore)
		rec.BonusScore = proportional(agg.BonusDays, agg.TotalWorkingDays, performance.MaxBonusScore)
	}
	rec.PerformanceScore = performanceTier(avgHours)

	rec.Total = decimal.Min(
		decimal.NewFromInt(performance.MaxTotalScore),
		rec.AttendanceScore.Add(rec.PerformanceScore).Add(rec.BonusScore),
	).Round(2)
	return rec
}

// proportional scales count/of onto [0, limit], capped at limit.
func proportional(count, of int, limit int64) decimal.Decimal {
	if of <= 0 || count <= 0 {
		return decimal.Zero
	}
	maxScore := decimal.NewFromInt(limit)
	v := decimal.NewFromInt(int64(count)).Mul(maxScore).Div(decimal.NewFromInt(int64(of)))
	return decimal.Min(maxScore, v).Round(2)
}

func performanceTier(avgHours decimal.Decimal) decimal.Decimal {
	switch {
	case avgHours.GreaterThanOrEqual(highTierHours):
		return highTierScore
	case avgHours.GreaterThanOrEqual(midTierHours):
		return midTierScore
	case avgHours.IsPositive():
		return lowTierScore
	default:
		return decimal.Zero
	}
}

// IsExcluded reports whether role matches one of the excluded keywords.
func (s *Scorer) IsExcluded(role string) bool {
	role = strings.ToLower(role)
	for _, k := range s.excludedRoleKeywords {
		if strings.Contains(role, k) {
			return true
		}
	}
	return false
}

// Rank orders records by total, then attendance score, both descending, then
// by employee ID. Input order never affects the result.
func (s *Scorer) Rank(records []performance.ScoreRecord) performance.Leaderboard {
	ranked := slices.Clone(records)
	slices.SortFunc(ranked, func(a, b performance.ScoreRecord) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		if c := b.AttendanceScore.Cmp(a.AttendanceScore); c != 0 {
			return c
		}
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	})

	lb := performance.Leaderboard{Records: ranked}
	for i := range ranked {
		ranked[i].Rank = i + 1
		if lb.TopEligible == nil && !s.IsExcluded(ranked[i].Role) {
			top := ranked[i]
			lb.TopEligible = &top
		}
	}
	if len(ranked) > 0 {
		lb.PeriodStart = ranked[0].PeriodStart
		lb.PeriodEnd = ranked[0].PeriodEnd
	}
	return lb
}
