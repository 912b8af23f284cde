package models

// StatsTotals are the headline dashboard numbers
type StatsTotals struct {
	TotalOrders      int     `json:"total_orders"`
	PlacedOrders     int     `json:"placed_orders"`
	ConfirmedOrders  int     `json:"confirmed_orders"`
	TotalSalesPlaced float64 `json:"total_sales_placed"`
}

// StatsSummary is the dashboard payload, scoped to the caller's visibility
type StatsSummary struct {
	Totals     StatsTotals    `json:"totals"`
	ByStatus   map[string]int `json:"by_status"`
	StaffUsers []Assignable   `json:"staff_users"`
}
