package models

// DashboardSummary is the admin aggregate returned by GET /dashboard.
type DashboardSummary struct {
	Total_orders int `json:"total_orders"`
	Pending      int `json:"pending"`
	Cooking      int `json:"cooking"`
	Packing      int `json:"packing"`
	Ready        int `json:"ready"`
	In_delivery  int `json:"in_delivery"`
	Delivered    int `json:"delivered"`
	Cancelled    int `json:"cancelled"`
}

// DriverStats is returned by GET /driver/stats.
type DriverStats struct {
	Deliveries_today  int     `json:"deliveries_today"`
	Total_deliveries  int     `json:"total_deliveries"`
	Cancelled         int     `json:"cancelled"`
	Avg_delivery_time float64 `json:"avg_delivery_time"` // minutes
}

// StaffMember is one row of the admin chef/driver listings.
type StaffMember struct {
	User_id       string `json:"user_id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Available     bool   `json:"available"`
	Active_orders int    `json:"active_orders"`
}
