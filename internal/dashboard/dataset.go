package dashboard

import "carbonwise/internal"

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodWeekly  Period = "weekly"
)

func ParsePeriod(v string) (Period, bool) {
	switch Period(v) {
	case "", PeriodMonthly:
		return PeriodMonthly, true
	case PeriodWeekly:
		return PeriodWeekly, true
	default:
		return "", false
	}
}

type Achievement struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type RecentActivity struct {
	Activity string  `json:"activity"`
	Time     string  `json:"time"`
	Impact   float64 `json:"impact"`
	Positive bool    `json:"positive"`
}

type dataset struct {
	target     float64
	categories []internal.CarbonCategory
}

// The dashboard shows fixed demonstration figures regardless of snapshot
// contents.
var datasets = map[Period]dataset{
	PeriodMonthly: {
		target: 150,
		categories: []internal.CarbonCategory{
			{Name: "Transport", Value: 68.4, Percentage: 44, Trend: internal.TrendDown, TrendValue: 12},
			{Name: "Energy", Value: 45.2, Percentage: 29, Trend: internal.TrendUp, TrendValue: 8},
			{Name: "Food", Value: 28.7, Percentage: 18, Trend: internal.TrendDown, TrendValue: 5},
			{Name: "Shopping", Value: 14.4, Percentage: 9, Trend: internal.TrendUp, TrendValue: 3},
		},
	},
	PeriodWeekly: {
		target: 50,
		categories: []internal.CarbonCategory{
			{Name: "Transport", Value: 24.5, Percentage: 45, Trend: internal.TrendDown, TrendValue: 12},
			{Name: "Energy", Value: 18.2, Percentage: 33, Trend: internal.TrendUp, TrendValue: 8},
			{Name: "Food", Value: 8.1, Percentage: 15, Trend: internal.TrendDown, TrendValue: 3},
			{Name: "Shopping", Value: 3.7, Percentage: 7, Trend: internal.TrendUp, TrendValue: 5},
		},
	},
}

var weeklySeries = []internal.WeeklyPoint{
	{Week: "Week 1", Emissions: 180, Target: 150},
	{Week: "Week 2", Emissions: 165, Target: 150},
	{Week: "Week 3", Emissions: 170, Target: 150},
	{Week: "Week 4", Emissions: 157, Target: 150},
}

var demoSuggestions = []internal.Suggestion{
	{
		Type:             internal.SuggestionAlert,
		Category:         "transport",
		Title:            "High Transport Emissions",
		Description:      "Your transport emissions are 25% above average",
		Recommendation:   "Switch to public transport 2 days/week",
		PotentialSavings: 15.2,
	},
	{
		Type:             internal.SuggestionTip,
		Category:         "energy",
		Title:            "Try LED Bulbs",
		Description:      "Replace remaining incandescent bulbs with LEDs",
		Recommendation:   "Reduce electricity consumption by 12%",
		PotentialSavings: 5.4,
	},
	{
		Type:           internal.SuggestionAchievement,
		Title:          "Great Progress!",
		Description:    "You've reduced your footprint by 18% this month",
		Recommendation: "Keep up the excellent work",
	},
}

var demoGoals = []internal.Goal{
	{
		ID: "1", Title: "Reduce Weekly Transport", Description: "Use public transport 3 days this week",
		Target: 3, Current: 2, Unit: "days", Deadline: "This week", Status: internal.GoalActive,
	},
	{
		ID: "2", Title: "Zero Plastic Week", Description: "Avoid single-use plastic items",
		Target: 7, Current: 4, Unit: "days", Deadline: "This week", Status: internal.GoalActive,
	},
	{
		ID: "3", Title: "Energy Saver", Description: "Reduce electricity usage by 15%",
		Target: 15, Current: 15, Unit: "%", Deadline: "This month", Status: internal.GoalCompleted,
		Badge: "Eco Warrior",
	},
}

var demoAchievements = []Achievement{
	{Name: "First Steps", Icon: "🌱", Description: "Logged your first activity"},
	{Name: "Week Warrior", Icon: "⚡", Description: "Completed weekly goals"},
	{Name: "Carbon Crusher", Icon: "🏆", Description: "Reduced footprint by 50%"},
	{Name: "Eco Expert", Icon: "🌍", Description: "30 days of consistent tracking"},
}

var demoRecent = []RecentActivity{
	{Activity: "Took metro to work", Time: "2 hours ago", Impact: -2.1, Positive: true},
	{Activity: "Used reusable coffee cup", Time: "4 hours ago", Impact: -0.1, Positive: true},
	{Activity: "Ordered food delivery", Time: "Yesterday", Impact: 1.8},
}

const (
	demoLevel      = "EcoStarter"
	demoStreakDays = 7
	demoEcoScore   = 82
)
