package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxAttendanceScore  = 40
	MaxPerformanceScore = 40
	MaxBonusScore       = 20
	MaxTotalScore       = 100
)

// ScoreRecord is a stateless projection over one employee's period.
type ScoreRecord struct {
	EmployeeID       string
	EmployeeName     string
	Role             string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	AttendanceScore  decimal.Decimal
	PerformanceScore decimal.Decimal
	BonusScore       decimal.Decimal
	Total            decimal.Decimal
	Rank             int

	AttendanceRate   decimal.Decimal // percent, 0-100
	TotalWorkingDays int
	TotalHours       decimal.Decimal
	AvgHoursPerDay   decimal.Decimal
	OvertimeHours    decimal.Decimal
	PresentDays      int
	AbsentDays       int
	TravelDays       int
	BonusDays        int
}

type Leaderboard struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Records     []ScoreRecord
	// TopEligible is the best ranked record whose role matches none of the
	// excluded keywords. Nil when every record is excluded.
	TopEligible *ScoreRecord
}
