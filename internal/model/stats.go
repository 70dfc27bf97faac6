package model

// OverviewStats is the PMC dashboard summary
type OverviewStats struct {
	TotalBookings      int64   `json:"total_bookings"`
	PendingBookings    int64   `json:"pending_bookings"`
	ActiveBookings     int64   `json:"active_bookings"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalComplaints    int64   `json:"total_complaints"`
	PendingComplaints  int64   `json:"pending_complaints"`
	TotalHoardings     int64   `json:"total_hoardings"`
	OccupiedHoardings  int64   `json:"occupied_hoardings"`
	AvailableHoardings int64   `json:"available_hoardings"`
	PendingCollections int64   `json:"pending_collections"`
}
