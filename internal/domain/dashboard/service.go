package dashboard

import "context"

// TrendMonths is how many payrolls the trend chart shows.
const TrendMonths = 12

type DashboardService interface {
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}
