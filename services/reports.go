package services

import (
	"time"

	"dealerdesk-backend/models"
	"dealerdesk-backend/tenancy"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DaySales struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type ActivityEntry struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Time        time.Time       `json:"time"`
}

type LowStockEntry struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
	SKU   string `json:"sku"`
}

type DashboardStats struct {
	TodaySales      decimal.Decimal `json:"today_sales"`
	NewLeads        int64           `json:"new_leads"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	SalesOverview   []DaySales      `json:"sales_overview"`
	RecentActivity  []ActivityEntry `json:"recent_activity"`
	LowStockItems   []LowStockEntry `json:"low_stock_items"`
}

func sumInvoices(db *gorm.DB, tenantID, status string, from, to *time.Time) (decimal.Decimal, error) {
	q := db.Model(&models.Invoice{}).Where("tenant_id = ? AND status = ?", tenantID, status)
	if from != nil {
		q = q.Where("issued_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("issued_at < ?", *to)
	}
	var total decimal.NullDecimal
	if err := q.Select("SUM(total_amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Dashboard aggregates the tenant's read-only overview: today's paid
// sales, recent leads, pending payment volume, the last seven days of
// sales, recent invoices, and low-stock inventory.
func Dashboard(db *gorm.DB, actor tenancy.Actor, tenantID string) (*DashboardStats, error) {
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &DashboardStats{
		TodaySales:      decimal.Zero,
		PendingPayments: decimal.Zero,
	}

	var err error
	if stats.TodaySales, err = sumInvoices(db, tenantID, models.InvoiceStatusPaid, &todayStart, nil); err != nil {
		return nil, err
	}

	thirtyDaysAgo := now.AddDate(0, 0, -30)
	if err := db.Model(&models.Customer{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, thirtyDaysAgo).
		Count(&stats.NewLeads).Error; err != nil {
		return nil, err
	}

	if stats.PendingPayments, err = sumInvoices(db, tenantID, models.InvoiceStatusPending, nil, nil); err != nil {
		return nil, err
	}

	for i := 6; i >= 0; i-- {
		dayStart := todayStart.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		amount, err := sumInvoices(db, tenantID, models.InvoiceStatusPaid, &dayStart, &dayEnd)
		if err != nil {
			return nil, err
		}
		stats.SalesOverview = append(stats.SalesOverview, DaySales{
			Date:   dayStart.Format("Mon"),
			Amount: amount,
		})
	}

	var recent []models.Invoice
	if err := db.Where("tenant_id = ?", tenantID).
		Order("issued_at DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, err
	}
	for _, inv := range recent {
		kind := "invoice"
		desc := "Invoice created"
		if inv.Status == models.InvoiceStatusPaid {
			kind = "payment"
			desc = "Payment processed"
		}
		stats.RecentActivity = append(stats.RecentActivity, ActivityEntry{
			Type:        kind,
			Description: desc + " " + inv.Number,
			Amount:      inv.TotalAmount,
			Time:        inv.IssuedAt,
		})
	}

	var lowStock []models.InventoryItem
	if err := db.Where("tenant_id = ? AND stock_quantity < low_stock_threshold", tenantID).
		Order("stock_quantity").Limit(5).Find(&lowStock).Error; err != nil {
		return nil, err
	}
	for _, item := range lowStock {
		sku := item.SKU
		if sku == "" {
			sku = "N/A"
		}
		stats.LowStockItems = append(stats.LowStockItems, LowStockEntry{
			Name:  item.Name,
			Stock: item.StockQuantity,
			SKU:   sku,
		})
	}

	return stats, nil
}

type AdminStats struct {
	TotalDealers        int64            `json:"total_dealers"`
	ActiveDealers       int64            `json:"active_dealers"`
	InactiveDealers     int64            `json:"inactive_dealers"`
	DealersByPlan       map[string]int64 `json:"dealers_by_plan"`
	MonthlyRevenue      decimal.Decimal  `json:"monthly_revenue"`
	ExpiringSoon        int64            `json:"expiring_soon"`
	NewSignupsThisMonth int64            `json:"new_signups_this_month"`
}

// AdminOverview aggregates SaaS-level dealer statistics. Revenue is the
// sum of active dealers' plan prices.
func AdminOverview(db *gorm.DB) (*AdminStats, error) {
	stats := &AdminStats{
		DealersByPlan:  map[string]int64{},
		MonthlyRevenue: decimal.Zero,
	}

	if err := db.Model(&models.Tenant{}).Count(&stats.TotalDealers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Tenant{}).
		Where("is_active = ? AND status = ?", true, models.TenantStatusActive).
		Count(&stats.ActiveDealers).Error; err != nil {
		return nil, err
	}
	stats.InactiveDealers = stats.TotalDealers - stats.ActiveDealers

	rows := []struct {
		PlanID string
		N      int64
	}{}
	if err := db.Model(&models.Tenant{}).
		Select("plan_id, COUNT(id) AS n").Group("plan_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		key := r.PlanID
		if key == "" {
			key = "none"
		}
		stats.DealersByPlan[key] = r.N
	}

	plans, err := ListPlans(db)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(plans))
	for _, p := range plans {
		prices[p.ID] = p.Price
	}
	var active []models.Tenant
	if err := db.Where("is_active = ? AND status = ?", true, models.TenantStatusActive).
		Find(&active).Error; err != nil {
		return nil, err
	}
	for _, t := range active {
		if price, ok := prices[t.PlanID]; ok {
			stats.MonthlyRevenue = stats.MonthlyRevenue.Add(price)
		}
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, 30)
	if err := db.Model(&models.Tenant{}).
		Where("is_active = ? AND subscription_end IS NOT NULL AND subscription_end <= ? AND subscription_end >= ?",
			true, cutoff, now).
		Count(&stats.ExpiringSoon).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := db.Model(&models.Tenant{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.NewSignupsThisMonth).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
