package performance

import (
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PeriodRequest struct {
	PeriodStart string
	PeriodEnd   string
}

func (r *PeriodRequest) Validate() (time.Time, time.Time, error) {
	return validator.ParsePeriod(r.PeriodStart, r.PeriodEnd, 62)
}

type ScoreResponse struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	Role             string          `json:"role"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	Rank             int             `json:"rank,omitempty"`
	AttendanceScore  decimal.Decimal `json:"attendance_score"`
	PerformanceScore decimal.Decimal `json:"performance_score"`
	BonusScore       decimal.Decimal `json:"bonus_score"`
	Total            decimal.Decimal `json:"total"`
	Stats            StatsResponse   `json:"stats"`
}

type StatsResponse struct {
	AttendanceRate   decimal.Decimal `json:"attendance_rate"`
	TotalWorkingDays int             `json:"total_working_days"`
	TotalHours       decimal.Decimal `json:"total_hours"`
	AvgHoursPerDay   decimal.Decimal `json:"avg_hours_per_day"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	PresentDays      int             `json:"present_days"`
	AbsentDays       int             `json:"absent_days"`
	TravelDays       int             `json:"travel_days"`
	BonusDays        int             `json:"bonus_days"`
}

func NewScoreResponse(r ScoreRecord) ScoreResponse {
	return ScoreResponse{
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		Role:             r.Role,
		PeriodStart:      r.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:        r.PeriodEnd.Format(validator.DateLayout),
		Rank:             r.Rank,
		AttendanceScore:  r.AttendanceScore,
		PerformanceScore: r.PerformanceScore,
		BonusScore:       r.BonusScore,
		Total:            r.Total,
		Stats: StatsResponse{
			AttendanceRate:   r.AttendanceRate,
			TotalWorkingDays: r.TotalWorkingDays,
			TotalHours:       r.TotalHours,
			AvgHoursPerDay:   r.AvgHoursPerDay,
			OvertimeHours:    r.OvertimeHours,
			PresentDays:      r.PresentDays,
			AbsentDays:       r.AbsentDays,
			TravelDays:       r.TravelDays,
			BonusDays:        r.BonusDays,
		},
	}
}

type LeaderboardResponse struct {
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Records     []ScoreResponse `json:"records"`
	TopEligible *ScoreResponse  `json:"top_eligible"`
}

func NewLeaderboardResponse(lb Leaderboard) LeaderboardResponse {
	resp := LeaderboardResponse{
		PeriodStart: lb.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:   lb.PeriodEnd.Format(validator.DateLayout),
		Records:     make([]ScoreResponse, 0, len(lb.Records)),
	}
	for _, r := range lb.Records {
		resp.Records = append(resp.Records, NewScoreResponse(r))
	}
	if lb.TopEligible != nil {
		top := NewScoreResponse(*lb.TopEligible)
		resp.TopEligible = &top
	}
	return resp
}

// LeaderboardRow is the flattened export shape.
type LeaderboardRow struct {
	Rank             int    `csv:"rank"`
	EmployeeID       string `csv:"employee_id"`
	EmployeeName     string `csv:"employee_name"`
	Role             string `csv:"role"`
	AttendanceScore  string `csv:"attendance_score"`
	PerformanceScore string `csv:"performance_score"`
	BonusScore       string `csv:"bonus_score"`
	Total            string `csv:"total"`
	PresentDays      int    `csv:"present_days"`
	TotalHours       string `csv:"total_hours"`
	TopEligible      bool   `csv:"top_eligible"`
}

func NewLeaderboardRows(lb Leaderboard) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(lb.Records))
	for _, r := range lb.Records {
		rows = append(rows, LeaderboardRow{
			Rank:             r.Rank,
			EmployeeID:       r.EmployeeID,
			EmployeeName:     r.EmployeeName,
			Role:             r.Role,
			AttendanceScore:  r.AttendanceScore.StringFixed(2),
			PerformanceScore: r.PerformanceScore.StringFixed(2),
			BonusScore:       r.BonusScore.StringFixed(2),
			Total:            r.Total.StringFixed(2),
			PresentDays:      r.PresentDays,
			TotalHours:       r.TotalHours.StringFixed(2),
			TopEligible:      lb.TopEligible != nil && lb.TopEligible.EmployeeID == r.EmployeeID,
		})
	}
	return rows
}
