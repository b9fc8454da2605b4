package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// DashboardStats is the aggregate view behind the admin dashboard.
type DashboardStats struct {
	TotalOrders    int64            `json:"totalOrders"`
	TotalRevenue   float64          `json:"totalRevenue"`
	RecentOrders   int64            `json:"recentOrders"` // last 30 days
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	TopProducts    []TopProduct     `json:"topProducts"`
}

// TopProduct ranks products by units sold.
type TopProduct struct {
	ProductID     string `db:"product_id" json:"productId"`
	Name          string `db:"name" json:"name"`
	TotalQuantity int64  `db:"total_quantity" json:"totalQuantity"`
	OrderCount    int64  `db:"order_count" json:"orderCount"`
}

// StatsRepository runs the handwritten reporting SQL. It sits on sqlx over
// the same connection pool gorm uses; the aggregates are easier to express
// and review as plain SQL.
type StatsRepository interface {
	GetDashboardStats() (*DashboardStats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int64),
		TopProducts:    []TopProduct{},
	}

	if err := r.db.Get(&stats.TotalOrders,
		`SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL`); err != nil {
		return nil, err
	}

	if err := r.db.Get(&stats.TotalRevenue,
		`SELECT COALESCE(SUM(total), 0) FROM orders WHERE deleted_at IS NULL`); err != nil {
		return nil, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := r.db.Get(&stats.RecentOrders,
		`SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL AND created_at >= $1`,
		thirtyDaysAgo); err != nil {
		return nil, err
	}

	rows, err := r.db.Queryx(
		`SELECT status, COUNT(*) AS cnt FROM orders WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var cnt int64
		if err := rows.Scan(&status, &cnt); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = cnt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.Select(&stats.TopProducts, `
		SELECT oi.product_id,
		       COALESCE(p.name, oi.product_id) AS name,
		       SUM(oi.quantity) AS total_quantity,
		       COUNT(DISTINCT oi.order_id) AS order_count
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.deleted_at IS NULL
		GROUP BY oi.product_id, p.name
		ORDER BY total_quantity DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
