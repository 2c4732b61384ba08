package domain

// DashboardStats are the totals shown on the admin dashboard.
type DashboardStats struct {
	TotalProducts int            `json:"totalProducts"`
	TotalOrders   int            `json:"totalOrders"`
	TotalSales    float64        `json:"totalSales"`
	MonthlySales  []MonthlySales `json:"monthlySales"`
}

// MonthlySales is the revenue of one calendar month, "YYYY-MM".
type MonthlySales struct {
	Month      string  `json:"month"`
	Orders     int     `json:"orders"`
	TotalSales float64 `json:"totalSales"`
}
