package contract

import (
	"time"

	"taxi24/internal/domain"
)

// GeoPoint is a GeoJSON point.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func newGeoPoint(p domain.Point) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: p.Coordinates()}
}

// Driver is the wire form of a driver.
type Driver struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	LastName        string    `json:"lastName"`
	Status          string    `json:"status"`
	LastCoordinates *GeoPoint `json:"lastCoordinates"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NearbyDriver is a driver with its distance to the search origin in km.
type NearbyDriver struct {
	Driver
	Distance float64 `json:"distance"`
}

// Passenger is the wire form of a passenger.
type Passenger struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceRecipient is the party an invoice is addressed to.
type InvoiceRecipient struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

// InvoiceItem is one billed line.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// InvoiceTotals holds the computed amounts of an invoice.
type InvoiceTotals struct {
	Subtotal      float64 `json:"subtotal"`
	TaxPercentage float64 `json:"taxPercentage"`
	Tax           float64 `json:"tax"`
	Tip           float64 `json:"tip"`
	Total         float64 `json:"total"`
}

// Invoice is the wire form of an invoice.
type Invoice struct {
	ID            string           `json:"id"`
	ResourceID    string           `json:"resourceId"`
	ResourceType  string           `json:"resourceType"`
	InvoiceNumber int64            `json:"invoiceNumber"`
	To            InvoiceRecipient `json:"to"`
	Items         []InvoiceItem    `json:"items"`
	Totals        InvoiceTotals    `json:"totals"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Trip is the wire form of a trip with its references resolved.
type Trip struct {
	ID                     string     `json:"id"`
	DriverID               string     `json:"driverId"`
	PassengerID            string     `json:"passengerId"`
	Driver                 *Driver    `json:"driver"`
	Passenger              *Passenger `json:"passenger"`
	Status                 string     `json:"status"`
	StartCoordinates       GeoPoint   `json:"startCoordinates"`
	DestinationCoordinates GeoPoint   `json:"destinationCoordinates"`
	Distance               float64    `json:"distance"`
	Price                  float64    `json:"price"`
	Tip                    float64    `json:"tip"`
	PaymentType            string     `json:"paymentType"`
	StartAt                time.Time  `json:"startAt"`
	CompletedAt            *time.Time `json:"completedAt"`
	Invoice                *Invoice   `json:"invoice"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items        []T  `json:"items"`
	TotalRecords int  `json:"totalRecords"`
	TotalPages   int  `json:"totalPages"`
	HasNextPage  bool `json:"hasNextPage"`
}

// NewDriver converts a domain driver.
func NewDriver(d *domain.Driver) *Driver {
	if d == nil {
		return nil
	}
	out := &Driver{
		ID:        d.ID,
		Name:      d.Name,
		LastName:  d.LastName,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.LastCoordinates != nil {
		p := newGeoPoint(*d.LastCoordinates)
		out.LastCoordinates = &p
	}
	return out
}

// NewNearbyDriver converts a domain driver annotated with its distance.
func NewNearbyDriver(d *domain.NearbyDriver) NearbyDriver {
	return NearbyDriver{Driver: *NewDriver(&d.Driver), Distance: d.DistanceKm}
}

// NewPassenger converts a domain passenger.
func NewPassenger(p *domain.Passenger) *Passenger {
	if p == nil {
		return nil
	}
	return &Passenger{
		ID:        p.ID,
		Name:      p.Name,
		LastName:  p.LastName,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewInvoice converts a domain invoice.
func NewInvoice(i *domain.Invoice) *Invoice {
	if i == nil {
		return nil
	}
	items := make([]InvoiceItem, 0, len(i.Items))
	for _, item := range i.Items {
		items = append(items, InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			Total:       item.Total.InexactFloat64(),
		})
	}
	return &Invoice{
		ID:            i.ID,
		ResourceID:    i.ResourceID,
		ResourceType:  string(i.ResourceType),
		InvoiceNumber: i.InvoiceNumber,
		To:            InvoiceRecipient{Name: i.To.Name, LastName: i.To.LastName},
		Items:         items,
		Totals: InvoiceTotals{
			Subtotal:      i.Totals.Subtotal.InexactFloat64(),
			TaxPercentage: i.Totals.TaxPercentage.InexactFloat64(),
			Tax:           i.Totals.Tax.InexactFloat64(),
			Tip:           i.Totals.Tip.InexactFloat64(),
			Total:         i.Totals.Total.InexactFloat64(),
		},
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// NewTrip converts a trip view.
func NewTrip(v *domain.TripView) *Trip {
	t := v.Trip
	out := &Trip{
		ID:                     t.ID,
		DriverID:               t.DriverID,
		PassengerID:            t.PassengerID,
		Driver:                 NewDriver(v.Driver),
		Passenger:              NewPassenger(v.Passenger),
		Status:                 string(t.Status),
		StartCoordinates:       newGeoPoint(t.StartCoordinates),
		DestinationCoordinates: newGeoPoint(t.DestinationCoordinates),
		Distance:               t.Distance,
		Price:                  t.Price,
		Tip:                    t.Tip,
		PaymentType:            string(t.PaymentType),
		StartAt:                t.StartAt,
		Invoice:                NewInvoice(v.Invoice),
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
	if !t.CompletedAt.IsZero() {
		completedAt := t.CompletedAt
		out.CompletedAt = &completedAt
	}
	return out
}

// NewPage converts a domain page item by item.
func NewPage[T, U any](p domain.Page[T], convert func(T) U) Page[U] {
	mapped := domain.MapPage(p, convert)
	return Page[U]{
		Items:        mapped.Items,
		TotalRecords: mapped.TotalRecords,
		TotalPages:   mapped.TotalPages,
		HasNextPage:  mapped.HasNextPage,
	}
}
