package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxi24/internal/apperr"
	"taxi24/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		items    []InvoiceItemRequest
		tax      string
		tip      string
		subtotal string
		wantTax  string
		wantTip  string
		total    string
	}{
		{
			name:     "single item with tip",
			items:    []InvoiceItemRequest{{Quantity: 1, UnitPrice: dec("20")}},
			tax:      "10",
			tip:      "2.5",
			subtotal: "20", wantTax: "2", wantTip: "2.5", total: "24.5",
		},
		{
			name:     "several items and quantities",
			items:    []InvoiceItemRequest{{Quantity: 2, UnitPrice: dec("3.15")}, {Quantity: 3, UnitPrice: dec("1.1")}},
			tax:      "16",
			tip:      "0",
			subtotal: "9.6", wantTax: "1.54", wantTip: "0", total: "11.14",
		},
		{
			name:     "subtotal rounds half away from zero",
			items:    []InvoiceItemRequest{{Quantity: 1, UnitPrice: dec("0.125")}},
			tax:      "0",
			tip:      "0",
			subtotal: "0.13", wantTax: "0", wantTip: "0", total: "0.13",
		},
		{
			name:     "tax rounds half away from zero",
			items:    []InvoiceItemRequest{{Quantity: 1, UnitPrice: dec("10.05")}},
			tax:      "10",
			tip:      "0.004",
			subtotal: "10.05", wantTax: "1.01", wantTip: "0", total: "11.06",
		},
		{
			name:     "zero tax rate",
			items:    []InvoiceItemRequest{{Quantity: 1, UnitPrice: dec("5.726")}},
			tax:      "0",
			tip:      "1",
			subtotal: "5.73", wantTax: "0", wantTip: "1", total: "6.73",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items, totals := ComputeTotals(tc.items, dec(tc.tax), dec(tc.tip))

			if len(items) != len(tc.items) {
				t.Fatalf("expected %d items, got %d", len(tc.items), len(items))
			}
			for i, item := range items {
				want := tc.items[i].UnitPrice.Mul(decimal.NewFromInt(int64(tc.items[i].Quantity)))
				if !item.Total.Equal(want) {
					t.Errorf("item %d: expected total %s, got %s", i, want, item.Total)
				}
			}

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"subtotal", totals.Subtotal, tc.subtotal},
				{"tax", totals.Tax, tc.wantTax},
				{"tip", totals.Tip, tc.wantTip},
				{"total", totals.Total, tc.total},
			}
			for _, c := range checks {
				if !c.got.Equal(dec(c.want)) {
					t.Errorf("expected %s %s, got %s", c.field, c.want, c.got)
				}
			}

			// Relations hold for every item set.
			if !totals.Tax.Equal(totals.Subtotal.Mul(totals.TaxPercentage).Div(decimal.NewFromInt(100)).Round(2)) {
				t.Errorf("tax %s does not match subtotal %s at %s%%", totals.Tax, totals.Subtotal, totals.TaxPercentage)
			}
			if !totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Add(totals.Tip).Round(2)) {
				t.Errorf("total %s is not the rounded sum of its parts", totals.Total)
			}
		})
	}
}

func tripInvoice(resourceID string) IssueInvoiceRequest {
	return IssueInvoiceRequest{
		ResourceID:   resourceID,
		ResourceType: domain.ResourceTypeTrip,
		To:           domain.InvoiceRecipient{Name: "Ana", LastName: "Gómez"},
		Items:        []InvoiceItemRequest{{Description: "Luis Pérez - Servicio de transporte", Quantity: 1, UnitPrice: dec("8")}},
	}
}

func TestIssue_OpensOwnUnitOfWork(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	env.seedSettings(t, "41", "12.5")

	first, err := env.invoices.Issue(ctx, nil, tripInvoice(uuid.New().String()))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, err := env.invoices.Issue(ctx, nil, tripInvoice(uuid.New().String()))
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}

	if first.InvoiceNumber != 42 || second.InvoiceNumber != 43 {
		t.Errorf("expected numbers 42 and 43, got %d and %d", first.InvoiceNumber, second.InvoiceNumber)
	}
	if !first.Totals.Tax.Equal(dec("1")) || !first.Totals.Total.Equal(dec("9")) {
		t.Errorf("unexpected totals %+v", first.Totals)
	}
	if got := env.settingValue(t, domain.SettingInvoiceNumber); got != "43" {
		t.Errorf("expected counter 43, got %s", got)
	}
}

func TestIssue_OneInvoicePerResource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	env.seedSettings(t, "0", "10")

	resourceID := uuid.New().String()
	if _, err := env.invoices.Issue(ctx, nil, tripInvoice(resourceID)); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := env.invoices.Issue(ctx, nil, tripInvoice(resourceID)); err == nil {
		t.Fatal("expected second invoice for the same trip to fail")
	}

	if got := env.settingValue(t, domain.SettingInvoiceNumber); got != "1" {
		t.Errorf("expected failed issue to leave counter at 1, got %s", got)
	}
}

func TestIssue_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedSettings(t, "0", "10")

	testCases := []struct {
		name   string
		mutate func(*IssueInvoiceRequest)
	}{
		{"missing resource", func(r *IssueInvoiceRequest) { r.ResourceID = "" }},
		{"missing resource type", func(r *IssueInvoiceRequest) { r.ResourceType = "" }},
		{"no items", func(r *IssueInvoiceRequest) { r.Items = nil }},
		{"zero quantity", func(r *IssueInvoiceRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *IssueInvoiceRequest) { r.Items[0].UnitPrice = dec("-1") }},
		{"negative tip", func(r *IssueInvoiceRequest) { r.Tip = dec("-0.5") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := tripInvoice(uuid.New().String())
			tc.mutate(&req)

			_, err := env.invoices.Issue(context.Background(), nil, req)
			assertKind(t, err, apperr.KindBadRequest)
		})
	}

	if n := env.invoiceCount(t); n != 0 {
		t.Errorf("expected no invoices, got %d", n)
	}
}

func TestIssue_RejectsMalformedSettings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		invoiceNumber string
		tax           string
	}{
		{"counter not numeric", "abc", "10"},
		{"counter negative", "-3", "10"},
		{"tax not numeric", "0", "ten"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.seedSettings(t, tc.invoiceNumber, tc.tax)

			_, err := env.invoices.Issue(context.Background(), nil, tripInvoice(uuid.New().String()))
			assertKind(t, err, apperr.KindBadRequest)
		})
	}
}

func TestInvoiceGet_UsesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	env.seedSettings(t, "0", "10")

	issued, err := env.invoices.Issue(ctx, nil, tripInvoice(uuid.New().String()))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	got, err := env.invoices.Get(ctx, issued.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.InvoiceNumber != issued.InvoiceNumber {
		t.Errorf("expected number %d, got %d", issued.InvoiceNumber, got.InvoiceNumber)
	}
	if env.cache.hits != 0 {
		t.Errorf("expected a cache miss first, got %d hits", env.cache.hits)
	}

	// Served from the cache even if the store fails.
	env.store.FailOn("invoices.GetByID", errors.New("db down"))
	if _, err := env.invoices.Get(ctx, issued.ID); err != nil {
		t.Fatalf("expected cached invoice, got %v", err)
	}
	if env.cache.hits != 1 {
		t.Errorf("expected one cache hit, got %d", env.cache.hits)
	}
}

func TestInvoiceGet_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.invoices.Get(context.Background(), "42")
	if !errors.Is(err, ErrInvalidInvoiceID) {
		t.Errorf("expected ErrInvalidInvoiceID, got %v", err)
	}

	_, err = env.invoices.Get(context.Background(), uuid.New().String())
	assertKind(t, err, apperr.KindNotFound)
	assertMessage(t, err, "Invoice not found")
}
