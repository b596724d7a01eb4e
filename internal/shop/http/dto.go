package shophttp

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/analytics"
	"github.com/shopdesk/shopdesk/internal/credit"
	"github.com/shopdesk/shopdesk/internal/inventory"
	"github.com/shopdesk/shopdesk/internal/sales"
	"github.com/shopdesk/shopdesk/internal/shared"
)

type addItemRequest struct {
	Name     string           `json:"item" validate:"required,max=200"`
	Quantity *int             `json:"quantity" validate:"required,gte=0"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Supplier string           `json:"supplier" validate:"required,max=200"`
	Category string           `json:"category" validate:"required"`
}

func (r addItemRequest) input() inventory.AddInput {
	return inventory.AddInput{
		Name:     r.Name,
		Quantity: *r.Quantity,
		Price:    *r.Price,
		Supplier: r.Supplier,
		Category: r.Category,
	}
}

type addCreditRequest struct {
	Customer  string           `json:"customer" validate:"required,max=200"`
	AmountDue *decimal.Decimal `json:"amount_due" validate:"required"`
	DueDate   string           `json:"due_date" validate:"required"`
}

type recordSaleRequest struct {
	Customer  string           `json:"customer" validate:"required,max=200"`
	ItemName  string           `json:"item" validate:"required,max=200"`
	Quantity  *int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required"`
	Date      string           `json:"date"`
}

func (r recordSaleRequest) input(date time.Time) sales.RecordInput {
	return sales.RecordInput{
		Customer:  r.Customer,
		ItemName:  r.ItemName,
		Quantity:  *r.Quantity,
		UnitPrice: *r.UnitPrice,
		Date:      date,
	}
}

type quotationRequest struct {
	Customer string   `json:"customer" validate:"required,max=200"`
	Items    []string `json:"items" validate:"required,min=1"`
}

type sessionResponse struct {
	CSRFToken   string            `json:"csrf_token"`
	Revision    uint64            `json:"revision"`
	StockPolicy sales.StockPolicy `json:"stock_policy"`
	UniqueNames bool              `json:"unique_names"`
}

type inventoryResponse struct {
	Items      []inventory.Item  `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
	TotalValue decimal.Decimal   `json:"total_value"`
	LowStock   []inventory.Item  `json:"low_stock"`
	Categories []string          `json:"categories"`
}

type itemsResponse struct {
	Items []inventory.Item `json:"items"`
}

type removeResponse struct {
	Name    string `json:"item"`
	Removed int    `json:"removed"`
}

type creditsResponse struct {
	Entries          []credit.Entry           `json:"entries"`
	TotalOutstanding decimal.Decimal          `json:"total_outstanding"`
	ByCustomer       []credit.CustomerBalance `json:"by_customer"`
}

type salesResponse struct {
	Records      []sales.Record  `json:"records"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type saleResponse struct {
	Record    sales.Record `json:"record"`
	Available *int         `json:"available,omitempty"`
}

type analyticsResponse struct {
	Summary           analytics.Summary         `json:"summary"`
	Categories        []analytics.Bucket        `json:"categories"`
	Suppliers         []analytics.Bucket        `json:"suppliers"`
	ValueByCategory   []analytics.ValueBucket   `json:"value_by_category"`
	QuantityOverTime  []sales.QuantityPoint     `json:"quantity_over_time"`
	RevenueOverTime   []sales.RevenuePoint      `json:"revenue_over_time"`
	CreditDue         []credit.DuePoint         `json:"credit_due"`
	TopItems          []sales.QuantityBucket    `json:"top_items"`
	TopCustomers      []sales.QuantityBucket    `json:"top_customers"`
	OutstandingByName []credit.CustomerBalance  `json:"outstanding_by_customer"`
}

type chartsResponse struct {
	Revision uint64            `json:"revision"`
	Charts   map[string]string `json:"charts"`
}
