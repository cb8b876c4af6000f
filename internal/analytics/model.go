package analytics

import (
	"fmt"
	"strings"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/shopspring/decimal"
)

// Unknown stands in for a student or guardian name that cannot be resolved.
const Unknown = "Невідомо"

type SortMode string

const (
	SortGrade SortMode = "grade"
	SortName  SortMode = "name"
	SortNone  SortMode = "none"
)

func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortGrade:
		return SortGrade, nil
	case SortName:
		return SortName, nil
	case SortNone:
		return SortNone, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

type Statistics struct {
	Range                 calendar.Range   `json:"range"`
	TotalRevenue          decimal.Decimal  `json:"total_revenue"`
	TotalOrders           int              `json:"total_orders"`
	AverageOrderValue     decimal.Decimal  `json:"average_order_value"`
	ActiveStudents        int              `json:"active_students"`
	TotalStudents         int              `json:"total_students"`
	StudentsWithOrders    int              `json:"students_with_orders"`
	StudentsWithoutOrders int              `json:"students_without_orders"`
	ParticipationRate     float64          `json:"participation_rate"`
	ClassDemand           []ClassDemand    `json:"class_demand"`
	Weekly                []WeeklyBucket   `json:"weekly"`
	Billing               []StudentBilling `json:"billing"`
}

// ClassDemand is the dish demand of one grade, dishes in first-ordered order.
type ClassDemand struct {
	Grade  string       `json:"grade"`
	Dishes []DishDemand `json:"dishes"`
}

// DishDemand has one student entry per order row, so a student ordering a
// dish twice is listed twice.
type DishDemand struct {
	Dish     string   `json:"dish"`
	Count    int      `json:"count"`
	Students []string `json:"students"`
}

type WeeklyBucket struct {
	Label   string          `json:"label"`
	From    calendar.Date   `json:"from"`
	To      calendar.Date   `json:"to"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StudentBilling struct {
	ChildID      string          `json:"child_id"`
	StudentName  string          `json:"student_name"`
	Grade        string          `json:"grade"`
	GuardianName string          `json:"guardian_name"`
	OrdersCount  int             `json:"orders_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// StudentOrder is one line of the kitchen's daily sheet.
type StudentOrder struct {
	StudentID      string   `json:"student_id"`
	StudentName    string   `json:"student_name"`
	Grade          string   `json:"grade"`
	MainMeal       string   `json:"main_meal"`
	FruitBreak     []string `json:"fruit_break"`
	AfternoonSnack []string `json:"afternoon_snack"`
	Allergies      []string `json:"allergies"`
}

type DailySheet struct {
	Date                  calendar.Date  `json:"date"`
	Sort                  SortMode       `json:"sort"`
	TotalStudents         int            `json:"total_students"`
	StudentsWithAllergies int            `json:"students_with_allergies"`
	Students              []StudentOrder `json:"students"`
	ClassDemand           []ClassDemand  `json:"class_demand"`
}

type DayOverview struct {
	Date                  calendar.Date `json:"date"`
	TotalStudents         int           `json:"total_students"`
	StudentsWithAllergies int           `json:"students_with_allergies"`
}

type GuardianSummary struct {
	WeeklySpent     decimal.Decimal `json:"weekly_spent"`
	MealsThisWeek   int             `json:"meals_this_week"`
	UpcomingMeals   int             `json:"upcoming_meals"`
	MonthlySpent    decimal.Decimal `json:"monthly_spent"`
	MonthlyBudget   decimal.Decimal `json:"monthly_budget"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}
