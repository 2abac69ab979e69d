package models

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse confirms a mutation that returns no document.
type MessageResponse struct {
	Message string `json:"message"`
}

// DashboardSummary holds the scope-filtered dashboard counts.
type DashboardSummary struct {
	TotalCustomers int64   `json:"totalCustomers"`
	ActiveLeads    int64   `json:"activeLeads"`
	TotalSales     float64 `json:"totalSales"`
	PendingTasks   int64   `json:"pendingTasks"`
}

// LeadFollowUpPair pairs a follow-up with its owning lead in summary buckets.
type LeadFollowUpPair struct {
	Lead     *Party       `json:"lead"`
	FollowUp LeadFollowUp `json:"followUp"`
}

// FollowUpSummary buckets every non-completed lead follow-up by its anchor
// date relative to the current calendar day.
type FollowUpSummary struct {
	TodayFollowups    []LeadFollowUpPair `json:"todayFollowups"`
	OverdueFollowups  []LeadFollowUpPair `json:"overdueFollowups"`
	UpcomingFollowups []LeadFollowUpPair `json:"upcomingFollowups"`
}
