package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/models"
	"dealerdesk-backend/tenancy"
	"dealerdesk-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// External status vocabulary. Wider than the stored enum: PAID maps to a
// stored "paid", DUE and PARTIAL both map to "pending". The requested label
// is echoed back in the issuance response; retrieval re-derives it from
// storage.
const (
	StatusDue     = "DUE"
	StatusPartial = "PARTIAL"
	StatusPaid    = "PAID"
)

type LineInput struct {
	ProductID *string         `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

type IssueInput struct {
	CustomerName string      `json:"customer_name"`
	Mobile       string      `json:"mobile"`
	Email        string      `json:"email"`
	VehicleNo    string      `json:"vehicle_no"`
	Items        []LineInput `json:"items"`
	Status       string      `json:"status"`
}

type InvoiceSummary struct {
	ID       string          `json:"id"`
	Number   string          `json:"number"`
	Customer string          `json:"customer"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

type InvoiceLine struct {
	ProductID *string         `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Amount    decimal.Decimal `json:"amount"`
}

type InvoiceDetail struct {
	InvoiceSummary
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	VehicleNo     string        `json:"vehicle_no"`
	Items         []InvoiceLine `json:"items"`
}

// mapRequestedStatus validates the external label and returns the stored
// enum value alongside the normalized label. Unknown labels are rejected,
// not defaulted.
func mapRequestedStatus(requested string) (stored, external string, err error) {
	external = strings.ToUpper(strings.TrimSpace(requested))
	if external == "" {
		external = StatusDue
	}
	switch external {
	case StatusPaid:
		return models.InvoiceStatusPaid, external, nil
	case StatusDue, StatusPartial:
		return models.InvoiceStatusPending, external, nil
	default:
		return "", "", apperr.Newf(apperr.Validation, "unknown invoice status %q (expected DUE, PARTIAL or PAID)", requested)
	}
}

// externalStatus derives the outward label from the stored enum.
func externalStatus(stored string) string {
	switch stored {
	case models.InvoiceStatusPaid:
		return StatusPaid
	case models.InvoiceStatusPartial:
		return StatusPartial
	default:
		return StatusDue
	}
}

func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%d", time.Now().UTC().UnixNano())
}

func validateIssueInput(in IssueInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return apperr.New(apperr.Validation, "customer name is required")
	}
	if len(in.Items) == 0 {
		return apperr.New(apperr.Validation, "at least one line item is required")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			return apperr.Newf(apperr.Validation, "item %d: name is required", i)
		}
		if item.Qty <= 0 {
			return apperr.Newf(apperr.Validation, "item %d: quantity must be positive", i)
		}
		if item.Rate.IsNegative() {
			return apperr.Newf(apperr.Validation, "item %d: rate must not be negative", i)
		}
		if item.TaxRate.IsNegative() {
			return apperr.Newf(apperr.Validation, "item %d: tax rate must not be negative", i)
		}
	}
	return nil
}

// resolveCustomer finds or creates the invoice customer within the tenant.
// With a phone the match is (name, phone); without one it is name alone.
// Same name with a different phone deliberately creates a second customer.
func resolveCustomer(tx *gorm.DB, tenantID string, in IssueInput) (*models.Customer, error) {
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.Mobile)

	q := tx.Where("tenant_id = ? AND name = ?", tenantID, name)
	if phone != "" {
		q = q.Where("phone = ?", phone)
	}

	var customer models.Customer
	err := q.First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    strings.TrimSpace(in.Email),
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// resolveVehicle finds or creates a vehicle by VIN within the tenant,
// linking created vehicles to the resolved customer.
func resolveVehicle(tx *gorm.DB, tenantID, customerID, vehicleNo string) (*models.Vehicle, error) {
	vin := strings.TrimSpace(vehicleNo)
	if vin == "" {
		return nil, nil
	}

	var vehicle models.Vehicle
	err := tx.Where("tenant_id = ? AND vin = ?", tenantID, vin).First(&vehicle).Error
	if err == nil {
		return &vehicle, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vehicle = models.Vehicle{
		TenantID:   tenantID,
		CustomerID: customerID,
		VIN:        vin,
		Active:     true,
	}
	if err := tx.Create(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// decrementStock reduces a product's stock by qty, clamped at zero, in one
// atomic UPDATE. A read-modify-write here would lose decrements under
// concurrent issuance; the single statement cannot. The clamp (rather than
// a failure) on oversell is deliberate and matches the inventory contract.
func decrementStock(tx *gorm.DB, tenantID, productID string, qty int) error {
	res := tx.Model(&models.InventoryItem{}).
		Where("id = ? AND tenant_id = ?", productID, tenantID).
		Update("stock_quantity",
			gorm.Expr("CASE WHEN stock_quantity >= ? THEN stock_quantity - ? ELSE 0 END", qty, qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "product not found")
	}
	return nil
}

// IssueInvoice runs the issuance workflow: resolve or create the customer
// and vehicle, compute decimal line amounts, persist the invoice with its
// items, and decrement referenced stock. Everything from the first write
// happens inside one transaction; any failure rolls back the invoice,
// its items, and any customer/vehicle created by this call.
func IssueInvoice(db *gorm.DB, actor tenancy.Actor, tenantID string, in IssueInput) (*InvoiceSummary, error) {
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return nil, err
	}
	if err := validateIssueInput(in); err != nil {
		return nil, err
	}
	storedStatus, externalLabel, err := mapRequestedStatus(in.Status)
	if err != nil {
		return nil, err
	}

	// Line math is pure; do it before touching storage.
	amounts := make([]decimal.Decimal, len(in.Items))
	for i, item := range in.Items {
		amounts[i] = utils.LineAmount(item.Qty, item.Rate, item.TaxRate)
	}
	total := utils.SumAmounts(amounts)

	var summary *InvoiceSummary
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := RequireTenant(tx, tenantID); err != nil {
			return err
		}

		customer, err := resolveCustomer(tx, tenantID, in)
		if err != nil {
			return err
		}

		vehicle, err := resolveVehicle(tx, tenantID, customer.Id, in.VehicleNo)
		if err != nil {
			return err
		}

		invoice := models.Invoice{
			TenantID:    tenantID,
			CustomerID:  &customer.Id,
			Number:      newInvoiceNumber(),
			TotalAmount: total,
			Status:      storedStatus,
			IssuedAt:    time.Now().UTC(),
		}
		if vehicle != nil {
			invoice.VehicleID = &vehicle.Id
		}
		for i, item := range in.Items {
			invoice.Items = append(invoice.Items, models.InvoiceItem{
				ProductID: item.ProductID,
				Name:      strings.TrimSpace(item.Name),
				Qty:       item.Qty,
				Rate:      item.Rate,
				TaxRate:   item.TaxRate,
				Amount:    amounts[i],
			})
		}

		// The insert runs under a savepoint so a number collision can be
		// retried without aborting the outer transaction.
		createInvoice := func() error {
			return tx.Transaction(func(nested *gorm.DB) error {
				return nested.Create(&invoice).Error
			})
		}
		if err := createInvoice(); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			// Number collision: regenerate once, then surface.
			invoice.Id = ""
			invoice.Number = newInvoiceNumber()
			for i := range invoice.Items {
				invoice.Items[i].Id = ""
			}
			if err := createInvoice(); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.New(apperr.Conflict, "could not allocate a unique invoice number")
				}
				return err
			}
		}

		for _, item := range in.Items {
			if item.ProductID == nil || *item.ProductID == "" {
				continue
			}
			if err := decrementStock(tx, tenantID, *item.ProductID, item.Qty); err != nil {
				return err
			}
		}

		summary = &InvoiceSummary{
			ID:       invoice.Id,
			Number:   invoice.Number,
			Customer: customer.Name,
			Date:     invoice.IssuedAt,
			Amount:   invoice.TotalAmount,
			Status:   externalLabel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// GetInvoice reconstructs a single invoice: customer contact (or the
// "Walk-in Customer" fallback), vehicle identifier, line items, and the
// derived external status. A foreign tenant's invoice is a plain not-found.
func GetInvoice(db *gorm.DB, actor tenancy.Actor, tenantID, invoiceID string) (*InvoiceDetail, error) {
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return nil, err
	}

	var invoice models.Invoice
	err := db.Preload("Items").
		Where("id = ? AND tenant_id = ?", invoiceID, tenantID).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "invoice not found")
		}
		return nil, err
	}

	detail := &InvoiceDetail{
		InvoiceSummary: InvoiceSummary{
			ID:       invoice.Id,
			Number:   invoice.Number,
			Customer: "Walk-in Customer",
			Date:     invoice.IssuedAt,
			Amount:   invoice.TotalAmount,
			Status:   externalStatus(invoice.Status),
		},
	}

	if invoice.CustomerID != nil {
		var customer models.Customer
		err := db.Where("id = ? AND tenant_id = ?", *invoice.CustomerID, tenantID).First(&customer).Error
		if err == nil {
			detail.Customer = customer.Name
			detail.CustomerEmail = customer.Email
			detail.CustomerPhone = customer.Phone
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if invoice.VehicleID != nil {
		var vehicle models.Vehicle
		err := db.Where("id = ? AND tenant_id = ?", *invoice.VehicleID, tenantID).First(&vehicle).Error
		if err == nil {
			detail.VehicleNo = vehicle.VIN
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	for _, item := range invoice.Items {
		detail.Items = append(detail.Items, InvoiceLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			Rate:      item.Rate,
			TaxRate:   item.TaxRate,
			Amount:    item.Amount,
		})
	}

	return detail, nil
}

// ListFilter bounds an invoice listing. Start is inclusive and End
// exclusive; build them with ParseDateRange so a date-only end boundary
// covers the whole named day and nothing after it.
type ListFilter struct {
	Limit int
	Start *time.Time
	End   *time.Time
}

const defaultListLimit = 50

// ParseDateRange parses optional start/end boundaries accepting RFC3339 or
// plain dates. An end boundary given without a time-of-day is extended by
// one day so the filter is whole-day-inclusive; this is deliberate and load
// bearing for callers sending "2026-08-31"-style bounds.
func ParseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	parse := func(s string) (time.Time, bool, error) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.UTC(), true, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), false, nil
		}
		return time.Time{}, false, apperr.Newf(apperr.Validation, "invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
	}

	var start, end *time.Time
	if strings.TrimSpace(startStr) != "" {
		t, _, err := parse(strings.TrimSpace(startStr))
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if strings.TrimSpace(endStr) != "" {
		t, dateOnly, err := parse(strings.TrimSpace(endStr))
		if err != nil {
			return nil, nil, err
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		end = &t
	}
	return start, end, nil
}

// ListInvoices returns summaries newest-first, optionally bounded by
// issuance time and capped.
func ListInvoices(db *gorm.DB, actor tenancy.Actor, tenantID string, filter ListFilter) ([]InvoiceSummary, error) {
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := db.Where("tenant_id = ?", tenantID)
	if filter.Start != nil {
		q = q.Where("issued_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("issued_at < ?", *filter.End)
	}

	var invoices []models.Invoice
	if err := q.Order("issued_at DESC").Limit(limit).Find(&invoices).Error; err != nil {
		return nil, err
	}

	// Resolve customer names in one pass.
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		if inv.CustomerID != nil {
			ids = append(ids, *inv.CustomerID)
		}
	}
	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		var customers []models.Customer
		if err := db.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&customers).Error; err != nil {
			return nil, err
		}
		for _, cust := range customers {
			names[cust.Id] = cust.Name
		}
	}

	out := make([]InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		name := "Walk-in Customer"
		if inv.CustomerID != nil {
			if n, ok := names[*inv.CustomerID]; ok {
				name = n
			}
		}
		out = append(out, InvoiceSummary{
			ID:       inv.Id,
			Number:   inv.Number,
			Customer: name,
			Date:     inv.IssuedAt,
			Amount:   inv.TotalAmount,
			Status:   externalStatus(inv.Status),
		})
	}
	return out, nil
}

// DeleteInvoice removes an invoice; its items go with it via the storage
// cascade. Absent or foreign invoices are the same not-found.
func DeleteInvoice(db *gorm.DB, actor tenancy.Actor, tenantID, invoiceID string) error {
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	res := db.Where("id = ? AND tenant_id = ?", invoiceID, tenantID).Delete(&models.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "invoice not found")
	}
	return nil
}
