package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EpochSeconds is a creation time in seconds since the Unix epoch.
// It decodes from a plain number or from a Firestore-style timestamp object
// ({"seconds": n} or {"_seconds": n}) so documents exported from the old store ingest unchanged.
type EpochSeconds int64

// UnmarshalJSON implements json.Unmarshaler.
func (e *EpochSeconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var ts struct {
			Seconds      *int64 `json:"seconds"`
			LegacySecond *int64 `json:"_seconds"`
		}
		if err := json.Unmarshal(data, &ts); err != nil {
			return err
		}
		switch {
		case ts.Seconds != nil:
			*e = EpochSeconds(*ts.Seconds)
		case ts.LegacySecond != nil:
			*e = EpochSeconds(*ts.LegacySecond)
		default:
			return fmt.Errorf("timestamp object has no seconds field")
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp must be a number or {seconds}: %w", err)
	}
	*e = EpochSeconds(int64(n))
	return nil
}

// Link types accepted for ExternalLink.Type.
const (
	LinkTypeVideo   = "video"
	LinkTypeArticle = "article"
	LinkTypeForum   = "forum"
	LinkTypeOther   = "other"
)

// ExternalLink is a user-attached reference (review video, forum thread, ...).
type ExternalLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Warning kinds attached by the analysis service to a cost breakdown.
const (
	WarningHeatPumpMissing = "heat_pump_missing"
	WarningHighMileage     = "high_mileage"
	WarningLowSOH          = "low_soh"
)

// CostWarning is a flag raised by the analysis service. Kind is sent as "type" on the wire.
type CostWarning struct {
	Kind string `json:"type"`
	Text string `json:"text"`
}

// CostBreakdown is the import cost structure computed by the analysis service.
// TotalCZK is authoritative and is not required to equal the sum of the other components.
type CostBreakdown struct {
	BasePriceEUR     float64       `json:"base_price_eur"`
	VATAdjustmentEUR float64       `json:"vat_adjustment_eur"`
	FinalPriceEUR    float64       `json:"final_price_eur"`
	BaseCZK          float64       `json:"base_czk"`
	LogisticsCZK     float64       `json:"logistics_czk"`
	TiresCZK         float64       `json:"tires_czk"`
	ServiceCZK       float64       `json:"service_czk"`
	TotalCZK         float64       `json:"total_czk"`
	Warnings         []CostWarning `json:"warnings"`
}

// Listing is one analysed car advertisement as stored in car_analysis_results.
// Optional attributes are pointers so "absent" survives a round trip; the
// legacy price aliases (import_price_czk, additional_costs) are kept for the reconciler.
type Listing struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Model *string   `gorm:"column:model" json:"model,omitempty"`
	Make  *string   `gorm:"column:make" json:"make,omitempty"`
	Link  *string   `gorm:"column:link" json:"link,omitempty"`
	URL   *string   `gorm:"column:url" json:"url,omitempty"`

	PriceCZK        *float64 `gorm:"column:price_czk" json:"price_czk,omitempty"`
	RealPriceCZK    *float64 `gorm:"column:real_price_czk" json:"real_price_czk,omitempty"`
	PriceEUR        *float64 `gorm:"column:price_eur" json:"price_eur,omitempty"`
	ImportPriceCZK  *float64 `gorm:"column:import_price_czk" json:"import_price_czk,omitempty"`
	AdditionalCosts *float64 `gorm:"column:additional_costs" json:"additional_costs,omitempty"`

	Mileage      *int64   `gorm:"column:mileage" json:"mileage,omitempty"`
	Year         *int     `gorm:"column:year" json:"year,omitempty"`
	PowerKW      *float64 `gorm:"column:power_kw" json:"power_kw,omitempty"`
	Fuel         *string  `gorm:"column:fuel" json:"fuel,omitempty"`
	Transmission *string  `gorm:"column:transmission" json:"transmission,omitempty"`
	Location     *string  `gorm:"column:location" json:"location,omitempty"`
	Country      *string  `gorm:"column:country" json:"country,omitempty"`
	ImageURL     *string  `gorm:"column:image_url" json:"image_url,omitempty"`
	Owners       *int     `gorm:"column:owners" json:"owners,omitempty"`
	SellerName   *string  `gorm:"column:seller_name" json:"seller_name,omitempty"`
	SellerType   *string  `gorm:"column:seller_type" json:"seller_type,omitempty"`

	Timestamp *EpochSeconds `gorm:"column:timestamp;index" json:"timestamp,omitempty"`

	// Produced by the analysis service; never computed here.
	ExpertScore      *float64       `gorm:"column:expert_score" json:"expert_score,omitempty"`
	ArbitrageProfit  *float64       `gorm:"column:arbitrage_profit" json:"arbitrage_profit,omitempty"`
	SOH              *float64       `gorm:"column:soh" json:"soh,omitempty"`
	RangeWLTP        *float64       `gorm:"column:range_wltp" json:"range_wltp,omitempty"`
	AuditVerdict     *string        `gorm:"column:audit_verdict" json:"audit_verdict,omitempty"`
	AuditReasons     []string       `gorm:"column:audit_reasons;serializer:json" json:"audit_reasons,omitempty"`
	NegotiationDraft *string        `gorm:"column:negotiation_draft" json:"negotiation_draft,omitempty"`
	Warnings         []string       `gorm:"column:warnings;serializer:json" json:"warnings,omitempty"`
	Features         []string       `gorm:"column:features;serializer:json" json:"features,omitempty"`
	CostBreakdown    *CostBreakdown `gorm:"column:cost_breakdown;serializer:json" json:"cost_breakdown,omitempty"`

	// User annotations, mutable through UpdateFields only.
	Notes         *string        `gorm:"column:notes" json:"notes,omitempty"`
	Tags          []string       `gorm:"column:tags;serializer:json" json:"tags,omitempty"`
	ExternalLinks []ExternalLink `gorm:"column:external_links;serializer:json" json:"externalLinks,omitempty"`

	// RawDocument is the payload exactly as ingested, unknown fields included.
	RawDocument datatypes.JSON `gorm:"column:raw_document;type:json;not null;default:'{}'" json:"-"`
}

func (Listing) TableName() string {
	return "car_analysis_results"
}

// BeforeCreate sets the id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
