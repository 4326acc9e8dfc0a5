package services

import (
	"sync"
	"testing"
	"time"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/models"
	"dealerdesk-backend/tenancy"

	"github.com/shopspring/decimal"
)

func staffActor(tenantID string) tenancy.Actor {
	return tenancy.Actor{
		UserID:   "user-1",
		TenantID: tenantID,
		Role:     tenancy.RoleDealerAdmin,
		Email:    "admin@example.com",
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIssueInvoiceBasic(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Mobile:       "555-0101",
		VehicleNo:    "WDB1234567",
		Items: []LineInput{
			{Name: "Oil Change", Qty: 1, Rate: dec("100.00"), TaxRate: dec("18")},
		},
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !summary.Amount.Equal(dec("118.00")) {
		t.Errorf("amount = %s, want 118.00", summary.Amount)
	}
	if summary.Status != StatusDue {
		t.Errorf("status = %s, want DUE (empty request defaults to due)", summary.Status)
	}
	if summary.Customer != "Jane Doe" {
		t.Errorf("customer = %q", summary.Customer)
	}
	if summary.Number == "" || summary.ID == "" {
		t.Error("summary missing number or id")
	}

	var stored models.Invoice
	if err := db.First(&stored, "id = ?", summary.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.InvoiceStatusPending {
		t.Errorf("stored status = %s, want pending", stored.Status)
	}
	if stored.TenantID != "dealer-001" {
		t.Errorf("stored tenant = %s", stored.TenantID)
	}

	var customer models.Customer
	if err := db.First(&customer, "tenant_id = ? AND name = ?", "dealer-001", "Jane Doe").Error; err != nil {
		t.Fatalf("customer not created: %v", err)
	}
	var vehicle models.Vehicle
	if err := db.First(&vehicle, "tenant_id = ? AND vin = ?", "dealer-001", "WDB1234567").Error; err != nil {
		t.Fatalf("vehicle not created: %v", err)
	}
	if vehicle.CustomerID != customer.Id {
		t.Error("vehicle not linked to resolved customer")
	}
}

func TestIssueInvoiceStatusMapping(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	tests := []struct {
		requested string
		label     string
		stored    string
	}{
		{"PAID", StatusPaid, models.InvoiceStatusPaid},
		{"paid", StatusPaid, models.InvoiceStatusPaid},
		{"DUE", StatusDue, models.InvoiceStatusPending},
		{"PARTIAL", StatusPartial, models.InvoiceStatusPending},
		{"", StatusDue, models.InvoiceStatusPending},
	}
	for _, tc := range tests {
		summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: "Status Case",
			Status:       tc.requested,
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		})
		if err != nil {
			t.Fatalf("status %q: %v", tc.requested, err)
		}
		if summary.Status != tc.label {
			t.Errorf("status %q: echoed %s, want %s", tc.requested, summary.Status, tc.label)
		}
		var stored models.Invoice
		if err := db.First(&stored, "id = ?", summary.ID).Error; err != nil {
			t.Fatal(err)
		}
		if stored.Status != tc.stored {
			t.Errorf("status %q: stored %s, want %s", tc.requested, stored.Status, tc.stored)
		}
	}
}

func TestIssueInvoiceRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")

	_, err := IssueInvoice(db, staffActor("dealer-001"), "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Status:       "OVERDUE",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Error("rejected request must not persist an invoice")
	}
}

func TestIssueInvoiceValidation(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	tests := []struct {
		name string
		in   IssueInput
	}{
		{"missing customer name", IssueInput{
			Items: []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		}},
		{"no items", IssueInput{CustomerName: "Jane Doe"}},
		{"zero quantity", IssueInput{
			CustomerName: "Jane Doe",
			Items:        []LineInput{{Name: "Part", Qty: 0, Rate: dec("10.00")}},
		}},
		{"negative rate", IssueInput{
			CustomerName: "Jane Doe",
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("-1.00")}},
		}},
		{"blank item name", IssueInput{
			CustomerName: "Jane Doe",
			Items:        []LineInput{{Name: "  ", Qty: 1, Rate: dec("10.00")}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := IssueInvoice(db, actor, "dealer-001", tc.in)
			if !apperr.IsKind(err, apperr.Validation) {
				t.Fatalf("err = %v, want Validation", err)
			}
		})
	}

	// Validation happens before any write.
	var customers int64
	db.Model(&models.Customer{}).Count(&customers)
	if customers != 0 {
		t.Error("rejected requests must not create customers")
	}
}

func TestIssueInvoiceCustomerMatching(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	issue := func(name, phone string) string {
		t.Helper()
		summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: name,
			Mobile:       phone,
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		})
		if err != nil {
			t.Fatalf("issue for %s/%s: %v", name, phone, err)
		}
		return summary.ID
	}

	issue("Jane Doe", "555-0101")
	issue("Jane Doe", "555-0101") // same (name, phone) reuses
	issue("Jane Doe", "555-0202") // different phone is a new person
	issue("John Roe", "")
	issue("John Roe", "") // name-only match when no phone given

	var count int64
	db.Model(&models.Customer{}).Where("tenant_id = ? AND name = ?", "dealer-001", "Jane Doe").Count(&count)
	if count != 2 {
		t.Errorf("Jane Doe rows = %d, want 2 (one per phone)", count)
	}
	db.Model(&models.Customer{}).Where("tenant_id = ? AND name = ?", "dealer-001", "John Roe").Count(&count)
	if count != 1 {
		t.Errorf("John Roe rows = %d, want 1", count)
	}
}

func TestIssueInvoiceVehicleReuse(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	for i := 0; i < 2; i++ {
		_, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: "Jane Doe",
			VehicleNo:    "WDB1234567",
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	var count int64
	db.Model(&models.Vehicle{}).Where("tenant_id = ? AND vin = ?", "dealer-001", "WDB1234567").Count(&count)
	if count != 1 {
		t.Errorf("vehicle rows = %d, want 1 (VIN upsert)", count)
	}
}

func TestIssueInvoiceDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")
	product := seedProduct(t, db, "dealer-001", "Brake Pad", 10)

	issue := func(qty int) {
		t.Helper()
		_, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: "Jane Doe",
			Items: []LineInput{
				{ProductID: &product.Id, Name: "Brake Pad", Qty: qty, Rate: dec("25.00")},
			},
		})
		if err != nil {
			t.Fatalf("issue qty %d: %v", qty, err)
		}
	}
	stock := func() int {
		t.Helper()
		var item models.InventoryItem
		if err := db.First(&item, "id = ?", product.Id).Error; err != nil {
			t.Fatal(err)
		}
		return item.StockQuantity
	}

	issue(4)
	if got := stock(); got != 6 {
		t.Fatalf("stock after -4 = %d, want 6", got)
	}
	issue(2)
	if got := stock(); got != 4 {
		t.Fatalf("stock after -2 = %d, want 4", got)
	}
	// Oversell clamps at zero rather than failing or going negative.
	issue(9)
	if got := stock(); got != 0 {
		t.Fatalf("stock after oversell = %d, want 0", got)
	}
}

func TestIssueInvoiceUnknownProductRollsBack(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")
	product := seedProduct(t, db, "dealer-001", "Brake Pad", 10)

	ghost := "00000000-0000-0000-0000-000000000000"
	_, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		VehicleNo:    "WDB1234567",
		Items: []LineInput{
			{ProductID: &product.Id, Name: "Brake Pad", Qty: 2, Rate: dec("25.00")},
			{ProductID: &ghost, Name: "Phantom", Qty: 1, Rate: dec("5.00")},
		},
	})
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	// Nothing from the attempt survives: no invoice, no items, no customer,
	// no vehicle, stock untouched.
	counts := []struct {
		model any
		name  string
	}{
		{&models.Invoice{}, "invoices"},
		{&models.InvoiceItem{}, "invoice items"},
		{&models.Customer{}, "customers"},
		{&models.Vehicle{}, "vehicles"},
	}
	for _, c := range counts {
		var n int64
		db.Model(c.model).Count(&n)
		if n != 0 {
			t.Errorf("%s = %d after rollback, want 0", c.name, n)
		}
	}
	var item models.InventoryItem
	if err := db.First(&item, "id = ?", product.Id).Error; err != nil {
		t.Fatal(err)
	}
	if item.StockQuantity != 10 {
		t.Errorf("stock = %d after rollback, want 10", item.StockQuantity)
	}
}

func TestIssueInvoiceUnknownTenant(t *testing.T) {
	db := newTestDB(t)

	// Elevated operators may name any tenant; a nonexistent one must be a
	// not-found before any row is stamped with its id.
	admin := tenancy.Actor{UserID: "root", Role: tenancy.RoleSuperadmin}
	_, err := IssueInvoice(db, admin, "ghost", IssueInput{
		CustomerName: "Jane Doe",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	})
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	var customers, invoices int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Invoice{}).Count(&invoices)
	if customers != 0 || invoices != 0 {
		t.Errorf("rows stamped with a nonexistent tenant: %d customers, %d invoices", customers, invoices)
	}
}

func TestIssueInvoiceConcurrentDecrements(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")
	product := seedProduct(t, db, "dealer-001", "Brake Pad", 10)

	// Two issuers race for the same product. Whatever the interleaving,
	// neither decrement may be lost and the stock may never go negative:
	// from 10 with two qty-6 sales the result is 0 (second sale clamped)
	// or 4 if one sale is still in flight when the other commits first.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = IssueInvoice(db, actor, "dealer-001", IssueInput{
				CustomerName: "Jane Doe",
				Items: []LineInput{
					{ProductID: &product.Id, Name: "Brake Pad", Qty: 6, Rate: dec("25.00")},
				},
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("issuer %d: %v", i, err)
		}
	}

	var item models.InventoryItem
	if err := db.First(&item, "id = ?", product.Id).Error; err != nil {
		t.Fatal(err)
	}
	if item.StockQuantity != 0 && item.StockQuantity != 4 {
		t.Fatalf("stock = %d, want 0 or 4", item.StockQuantity)
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 2 {
		t.Fatalf("invoices = %d, want 2", count)
	}
}

func TestIssueInvoiceCrossTenant(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	seedTenant(t, db, "dealer-002")

	_, err := IssueInvoice(db, staffActor("dealer-001"), "dealer-002", IssueInput{
		CustomerName: "Jane Doe",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	})
	if !apperr.IsKind(err, apperr.CrossTenant) {
		t.Fatalf("err = %v, want CrossTenant", err)
	}
}

func TestIssueInvoiceElevatedActorCrossesTenants(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")

	admin := tenancy.Actor{UserID: "root", Role: tenancy.RoleSuperadmin}
	summary, err := IssueInvoice(db, admin, "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	})
	if err != nil {
		t.Fatalf("elevated issue: %v", err)
	}
	var stored models.Invoice
	if err := db.First(&stored, "id = ?", summary.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.TenantID != "dealer-001" {
		t.Errorf("tenant = %s, want target dealer-001", stored.TenantID)
	}
}

func TestGetInvoice(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Mobile:       "555-0101",
		Email:        "jane@example.com",
		VehicleNo:    "WDB1234567",
		Status:       "PAID",
		Items: []LineInput{
			{Name: "Oil Change", Qty: 1, Rate: dec("100.00"), TaxRate: dec("18")},
			{Name: "Wiper Blade", Qty: 2, Rate: dec("8.50")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	detail, err := GetInvoice(db, actor, "dealer-001", summary.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Status != StatusPaid {
		t.Errorf("status = %s, want PAID", detail.Status)
	}
	if detail.Customer != "Jane Doe" || detail.CustomerPhone != "555-0101" || detail.CustomerEmail != "jane@example.com" {
		t.Errorf("customer contact = %q/%q/%q", detail.Customer, detail.CustomerPhone, detail.CustomerEmail)
	}
	if detail.VehicleNo != "WDB1234567" {
		t.Errorf("vehicle = %q", detail.VehicleNo)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(detail.Items))
	}
	if !detail.Amount.Equal(dec("135.00")) {
		t.Errorf("amount = %s, want 135.00", detail.Amount)
	}
}

func TestGetInvoiceForeignTenantIsNotFound(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	seedTenant(t, db, "dealer-002")

	summary, err := IssueInvoice(db, staffActor("dealer-001"), "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// A dealer-002 actor asking for a dealer-001 invoice within its own
	// tenant scope gets the same not-found as a bogus id. No existence leak.
	_, err = GetInvoice(db, staffActor("dealer-002"), "dealer-002", summary.ID)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestListInvoices(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	seedTenant(t, db, "dealer-002")
	actor := staffActor("dealer-001")

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: "Jane Doe",
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		})
		if err != nil {
			t.Fatal(err)
		}
		// Spread issuance times one day apart for the range assertions.
		issuedAt := base.AddDate(0, 0, i)
		if err := db.Model(&models.Invoice{}).Where("id = ?", summary.ID).
			Update("issued_at", issuedAt).Error; err != nil {
			t.Fatal(err)
		}
	}
	// Foreign-tenant noise must never appear.
	if _, err := IssueInvoice(db, staffActor("dealer-002"), "dealer-002", IssueInput{
		CustomerName: "Other Dealer",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	}); err != nil {
		t.Fatal(err)
	}

	list, err := ListInvoices(db, actor, "dealer-001", ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 {
		t.Fatalf("listed %d, want 5", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Fatal("list not in newest-first order")
		}
	}
	for _, s := range list {
		if s.Customer != "Jane Doe" {
			t.Errorf("customer = %q, foreign row leaked?", s.Customer)
		}
	}

	limited, err := ListInvoices(db, actor, "dealer-001", ListFilter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited list = %d, want 2", len(limited))
	}

	// A date-only end bound covers the whole day.
	start, end, err := ParseDateRange("2026-08-26", "2026-08-27")
	if err != nil {
		t.Fatal(err)
	}
	ranged, err := ListInvoices(db, actor, "dealer-001", ListFilter{Start: start, End: end})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranged) != 2 {
		t.Fatalf("ranged list = %d, want 2 (Aug 26 and Aug 27 noon)", len(ranged))
	}
}

func TestListInvoicesEndBoundaryExcludesNextMidnight(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	times := []time.Time{
		time.Date(2026, 8, 27, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}
	for _, ts := range times {
		summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: "Jane Doe",
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := db.Model(&models.Invoice{}).Where("id = ?", summary.ID).
			Update("issued_at", ts).Error; err != nil {
			t.Fatal(err)
		}
	}

	// Aug 27 as a date-only end bound covers up to but not including the
	// next midnight; the invoice issued exactly at Aug 28 00:00 is Aug 28's.
	start, end, err := ParseDateRange("2026-08-27", "2026-08-27")
	if err != nil {
		t.Fatal(err)
	}
	list, err := ListInvoices(db, actor, "dealer-001", ListFilter{Start: start, End: end})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("listed %d, want 1 (midnight row belongs to the next day)", len(list))
	}
	if !list[0].Date.Equal(times[0]) {
		t.Errorf("listed %v, want the 23:59:59 row", list[0].Date)
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	// Date-only end extends to the next midnight so the day is inclusive.
	if !end.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want Sep 1 midnight", end)
	}

	_, end, err = ParseDateRange("", "2026-08-31T10:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	// An explicit timestamp is taken as-is.
	if !end.Equal(time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("RFC3339 end = %v", end)
	}

	if _, _, err := ParseDateRange("yesterday", ""); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
}

func TestDeleteInvoiceCascadesItems(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Items: []LineInput{
			{Name: "Part A", Qty: 1, Rate: dec("10.00")},
			{Name: "Part B", Qty: 1, Rate: dec("20.00")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteInvoice(db, actor, "dealer-001", summary.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var items int64
	db.Model(&models.InvoiceItem{}).Count(&items)
	if items != 0 {
		t.Errorf("orphaned items = %d, want 0", items)
	}

	if err := DeleteInvoice(db, actor, "dealer-001", summary.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("second delete err = %v, want NotFound", err)
	}
}

func TestDeleteInvoiceForeignTenantIsNotFound(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	seedTenant(t, db, "dealer-002")

	summary, err := IssueInvoice(db, staffActor("dealer-001"), "dealer-001", IssueInput{
		CustomerName: "Jane Doe",
		Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = DeleteInvoice(db, staffActor("dealer-002"), "dealer-002", summary.ID)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 1 {
		t.Error("foreign delete must not remove the invoice")
	}
}

func TestInvoiceNumbersAreUnique(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")
	actor := staffActor("dealer-001")

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		summary, err := IssueInvoice(db, actor, "dealer-001", IssueInput{
			CustomerName: "Jane Doe",
			Items:        []LineInput{{Name: "Part", Qty: 1, Rate: dec("10.00")}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if seen[summary.Number] {
			t.Fatalf("duplicate invoice number %s", summary.Number)
		}
		seen[summary.Number] = true
	}
}
