package estimates

import (
	"github.com/shopspring/decimal"

	"github.com/maidflow/maidflow/internal/company"
)

// ServiceType selects the cleaning intensity multiplier.
type ServiceType string

const (
	ServiceStandard   ServiceType = "standard"
	ServiceDeep       ServiceType = "deep"
	ServiceMoveOut    ServiceType = "move_out"
	ServiceCommercial ServiceType = "commercial"
)

// Frequency selects the recurring-visit discount.
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
)

var serviceMultipliers = map[ServiceType]decimal.Decimal{
	ServiceStandard:   decimal.NewFromInt(1),
	ServiceDeep:       decimal.RequireFromString("1.5"),
	ServiceMoveOut:    decimal.NewFromInt(2),
	ServiceCommercial: decimal.RequireFromString("1.3"),
}

var frequencyDiscounts = map[Frequency]decimal.Decimal{
	FrequencyOneTime:  decimal.NewFromInt(1),
	FrequencyMonthly:  decimal.RequireFromString("0.95"),
	FrequencyBiweekly: decimal.RequireFromString("0.9"),
	FrequencyWeekly:   decimal.RequireFromString("0.85"),
}

// Valid reports whether the service type is known.
func (s ServiceType) Valid() bool {
	_, ok := serviceMultipliers[s]
	return ok
}

// Valid reports whether the frequency is known.
func (f Frequency) Valid() bool {
	_, ok := frequencyDiscounts[f]
	return ok
}

// Property holds the attributes the calculator prices from.
type Property struct {
	SquareFootage int  `json:"square_footage"`
	Bedrooms      int  `json:"bedrooms"`
	Bathrooms     int  `json:"bathrooms"`
	LivingAreas   int  `json:"living_areas"`
	HasKitchen    bool `json:"has_kitchen"`
}

// Extras flags the optional add-ons priced from the tenant fee schedule.
type Extras struct {
	Pets          bool `json:"pets"`
	Children      bool `json:"children"`
	GreenCleaning bool `json:"green_cleaning"`
	Fridge        bool `json:"fridge"`
	Oven          bool `json:"oven"`
	Cabinets      bool `json:"cabinets"`
	Windows       bool `json:"windows"`
}

// Quote is the calculator's full breakdown. Total is a whole-dollar amount.
type Quote struct {
	BaseHours   decimal.Decimal `json:"base_hours"`
	RoomHours   decimal.Decimal `json:"room_hours"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	BasePrice   decimal.Decimal `json:"base_price"`
	ExtrasTotal decimal.Decimal `json:"extras_total"`
	Total       int64           `json:"total"`
}

// CalculateQuote is a pure function from property attributes, service type,
// frequency, extras and the tenant's rate snapshot to a whole-dollar price.
// Inputs are range-checked upstream; the result is deterministic and never
// negative.
func CalculateQuote(p Property, service ServiceType, frequency Frequency, extras Extras, hourlyRate float64, fees company.ExtraFees) Quote {
	half := decimal.RequireFromString("0.5")
	threeQuarters := decimal.RequireFromString("0.75")

	baseHours := decimal.NewFromInt(int64(p.SquareFootage)).Div(decimal.NewFromInt(400))

	roomHours := decimal.NewFromInt(int64(p.Bedrooms)).Mul(half).
		Add(decimal.NewFromInt(int64(p.Bathrooms)).Mul(threeQuarters)).
		Add(decimal.NewFromInt(int64(p.LivingAreas)).Mul(half))
	if p.HasKitchen {
		roomHours = roomHours.Add(threeQuarters)
	}

	multiplier, ok := serviceMultipliers[service]
	if !ok {
		multiplier = serviceMultipliers[ServiceStandard]
	}
	discount, ok := frequencyDiscounts[frequency]
	if !ok {
		discount = frequencyDiscounts[FrequencyOneTime]
	}

	totalHours := baseHours.Add(roomHours).Mul(multiplier)
	basePrice := totalHours.Mul(decimal.NewFromFloat(hourlyRate)).Mul(discount)

	extrasTotal := decimal.Zero
	for _, item := range []struct {
		on  bool
		fee float64
	}{
		{extras.Pets, fees.Pets},
		{extras.Children, fees.Children},
		{extras.GreenCleaning, fees.GreenCleaning},
		{extras.Fridge, fees.Fridge},
		{extras.Oven, fees.Oven},
		{extras.Cabinets, fees.Cabinets},
		{extras.Windows, fees.Windows},
	} {
		if item.on {
			extrasTotal = extrasTotal.Add(decimal.NewFromFloat(item.fee))
		}
	}

	total := basePrice.Add(extrasTotal).Round(0).IntPart()
	if total < 0 {
		total = 0
	}

	return Quote{
		BaseHours:   baseHours,
		RoomHours:   roomHours,
		TotalHours:  totalHours,
		BasePrice:   basePrice,
		ExtrasTotal: extrasTotal,
		Total:       total,
	}
}
