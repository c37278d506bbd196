package domain

import "time"

// DashboardSummary aggregates the figures shown on the start page
type DashboardSummary struct {
	Properties         int64     `json:"properties"`
	VacantProperties   int64     `json:"vacantProperties"`
	Tenants            int64     `json:"tenants"`
	ActiveLeases       int64     `json:"activeLeases"`
	MonthlyColdRent    float64   `json:"monthlyColdRent"`
	OpenBookings       int64     `json:"openBookings"`
	OpenBookingsAmount float64   `json:"openBookingsAmount"`
	OverdueBookings    int64     `json:"overdueBookings"`
	OpenTickets        int64     `json:"openTickets"`
	UrgentTickets      int64     `json:"urgentTickets"`
	OpenDunningNotices int64     `json:"openDunningNotices"`
	GeneratedAt        time.Time `json:"generatedAt"`
}
