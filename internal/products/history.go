package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EmptyHistoryMessage is shown when a product has no price changes.
const EmptyHistoryMessage = "Kayıt bulunamadı."

// PriceHistoryEntry is one price change of a product.
type PriceHistoryEntry struct {
	Price         decimal.Decimal `json:"price"`
	PriceDiscount decimal.Decimal `json:"price_discount"`
	DiscountName  string          `json:"discount_name"`
	UpdatedBy     string          `json:"updated_by"`
	Reason        string          `json:"reason"`
	From          string          `json:"from"`
	Until         *string         `json:"until"`
}

// HistoryRow is an entry formatted for display.
type HistoryRow struct {
	Price         string `json:"price"`
	PriceDiscount string `json:"price_discount"`
	DiscountName  string `json:"discount_name"`
	UpdatedBy     string `json:"updated_by"`
	Reason        string `json:"reason"`
	From          string `json:"from"`
	Until         string `json:"until"`
}

func (e PriceHistoryEntry) Row() HistoryRow {
	until := "-"
	if e.Until != nil && strings.TrimSpace(*e.Until) != "" {
		until = FormatDateTime(*e.Until)
	}
	return HistoryRow{
		Price:         FormatTRY(e.Price),
		PriceDiscount: FormatTRY(e.PriceDiscount),
		DiscountName:  e.DiscountName,
		UpdatedBy:     e.UpdatedBy,
		Reason:        e.Reason,
		From:          FormatDateTime(e.From),
		Until:         until,
	}
}

// HistoryView is the price history screen.
type HistoryView struct {
	ProductID  int64        `json:"product_id"`
	Name       string       `json:"name"`
	FinalPrice string       `json:"final_price"`
	Rows       []HistoryRow `json:"rows"`
	Empty      string       `json:"empty,omitempty"`
}

func NewHistoryView(p Product, entries []PriceHistoryEntry) HistoryView {
	view := HistoryView{ProductID: p.ID, Name: p.Name, Rows: make([]HistoryRow, 0, len(entries))}
	if p.FinalPrice.Valid {
		view.FinalPrice = FormatTRY(p.FinalPrice.Decimal)
	}
	for _, e := range entries {
		view.Rows = append(view.Rows, e.Row())
	}
	if len(view.Rows) == 0 {
		view.Empty = EmptyHistoryMessage
	}
	return view
}

// FormatTRY renders an amount the Turkish way: 1234.5 becomes "1.234,50 ₺".
func FormatTRY(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	b.WriteString(" ₺")
	return b.String()
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatDateTime renders an API timestamp as dd.mm.yyyy hh:mm:ss. Unparseable input is returned as is.
func FormatDateTime(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02.01.2006 15:04:05")
		}
	}
	return raw
}
