package garage

import (
	"fmt"
	"math"

	"evexpert-backend/internal/domain"
)

// EURToCZK is the display-only rate used to show the VAT correction in CZK.
// It never feeds total_czk.
const EURToCZK = 25.2

// vatNoiseEUR suppresses VAT corrections that are float noise around zero.
const vatNoiseEUR = 1.0

// Section ids, in presentation order.
const (
	SectionBase      = "base"
	SectionVAT       = "vat"
	SectionLogistics = "logistics"
	SectionTires     = "tires"
	SectionService   = "service"

	SectionListing   = "listing"
	SectionRealPrice = "real_price"
)

// Section is one step of the import cost walk-through.
type Section struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	AlwaysShow bool    `json:"alwaysShow"`
	Note       string  `json:"note,omitempty"`
}

// BuildSections lays out the cost components of b in fixed order. The VAT
// step appears only when the correction exceeds 1 EUR either way; tires and
// service only when positive.
func BuildSections(b domain.CostBreakdown) []Section {
	sections := make([]Section, 0, 5)
	sections = append(sections, Section{
		ID:         SectionBase,
		Label:      "Listing price",
		Amount:     b.BaseCZK,
		AlwaysShow: true,
		Note:       fmt.Sprintf("%s € × %.1f", formatEUR(b.BasePriceEUR), EURToCZK),
	})

	if math.Abs(b.VATAdjustmentEUR) > vatNoiseEUR {
		vat := roundHalfUp(b.VATAdjustmentEUR * EURToCZK)
		note := "DE→CZ VAT recompute"
		if vat < 0 {
			note = "net price, CZ VAT gives a saving"
		}
		sections = append(sections, Section{
			ID:         SectionVAT,
			Label:      "VAT correction",
			Amount:     vat,
			AlwaysShow: true,
			Note:       note,
		})
	}

	sections = append(sections, Section{
		ID:         SectionLogistics,
		Label:      "Transport, inspection and registration",
		Amount:     b.LogisticsCZK,
		AlwaysShow: true,
		Note:       "Tow service DE → CZ",
	})

	if b.TiresCZK > 0 {
		sections = append(sections, Section{
			ID:     SectionTires,
			Label:  "Tyres",
			Amount: b.TiresCZK,
			Note:   "Mileage over 50k km, new tyres",
		})
	}
	if b.ServiceCZK > 0 {
		sections = append(sections, Section{
			ID:     SectionService,
			Label:  "Fluid service",
			Amount: b.ServiceCZK,
			Note:   "Major coolant service",
		})
	}
	return sections
}

// FallbackSections is the simplified walk-through for records that predate
// cost_breakdown. l should already be reconciled.
func FallbackSections(l domain.Listing) []Section {
	price := floatOr0(l.PriceCZK)
	realPrice := floatOr0(l.RealPriceCZK)
	if realPrice == 0 {
		realPrice = price
	}
	sections := []Section{{
		ID:         SectionListing,
		Label:      "Listing price",
		Amount:     price,
		AlwaysShow: true,
	}}
	if realPrice != price {
		sections = append(sections, Section{
			ID:         SectionRealPrice,
			Label:      "Real price incl. import",
			Amount:     realPrice,
			AlwaysShow: true,
		})
	}
	return sections
}

// RunningTotal sums the sections the caller has revealed so far.
func RunningTotal(sections []Section, revealed map[string]bool) float64 {
	var total float64
	for _, s := range sections {
		if revealed[s.ID] {
			total += s.Amount
		}
	}
	return total
}

// AllRevealed reports whether every section id is in revealed.
func AllRevealed(sections []Section, revealed map[string]bool) bool {
	for _, s := range sections {
		if !revealed[s.ID] {
			return false
		}
	}
	return true
}

// BreakdownView is what the detail screen needs to render the calculator.
type BreakdownView struct {
	Sections    []Section            `json:"sections"`
	TotalCZK    float64              `json:"total_czk"`
	Simplified  bool                 `json:"simplified"`
	Warnings    []domain.CostWarning `json:"warnings"`
	HasWarnings bool                 `json:"has_warnings"`
}

// Present builds the calculator view for a reconciled listing. With a cost
// breakdown the total is the stored total_czk, never the sum of sections.
func Present(l domain.Listing) BreakdownView {
	if l.CostBreakdown == nil {
		sections := FallbackSections(l)
		return BreakdownView{
			Sections:   sections,
			TotalCZK:   sections[len(sections)-1].Amount,
			Simplified: true,
			Warnings:   []domain.CostWarning{},
		}
	}
	b := *l.CostBreakdown
	warnings := b.Warnings
	if warnings == nil {
		warnings = []domain.CostWarning{}
	}
	return BreakdownView{
		Sections:    BuildSections(b),
		TotalCZK:    b.TotalCZK,
		Warnings:    warnings,
		HasWarnings: len(warnings) > 0,
	}
}

// roundHalfUp rounds .5 toward +Inf, the rounding the front-end has always shown.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func formatEUR(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
