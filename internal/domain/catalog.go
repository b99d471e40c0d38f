package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enumerations accepted for catalog entities.
var (
	AttractionTypes    = []string{"Cultural", "Adventure", "Nature", "Historical", "Entertainment", "Other"}
	Cuisines           = []string{"Italian", "Chinese", "Mexican", "Indian", "American", "Other"}
	ActivityCategories = []string{"Outdoor", "Indoor", "Sports", "Workshop", "Other"}
)

// Restaurant ratings are bounded.
const (
	MinRating = 1
	MaxRating = 5
)

// Place holds the location fields every catalog entity carries.
type Place struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

func (p Place) validate() error {
	switch {
	case strings.TrimSpace(p.Country) == "":
		return Invalid("country is required")
	case strings.TrimSpace(p.City) == "":
		return Invalid("city is required")
	case strings.TrimSpace(p.Address) == "":
		return Invalid("address is required")
	}
	return nil
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return Invalid("%s is required", field)
	}
	return nil
}

func checkAmount(field string, v *float64) error {
	if v != nil && *v < 0 {
		return Invalid("%s must not be negative", field)
	}
	return nil
}

func checkEnum(field, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return Invalid("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
	return nil
}

// placeFields are updatable on every catalog kind.
func placeFields(a Allowlist) Allowlist {
	a["name"] = Field{Column: "name", Decode: RequiredText}
	a["description"] = Field{Column: "description", Decode: RequiredText}
	a["country"] = Field{Column: "country", Decode: RequiredText}
	a["city"] = Field{Column: "city", Decode: RequiredText}
	a["address"] = Field{Column: "address", Decode: RequiredText}
	a["tags"] = Field{Column: "tags", Decode: Strings}
	a["tips"] = Field{Column: "tips", Decode: Text}
	return a
}

// ---- Attraction -------------------------------------------------------------

// Attraction is a sight or venue a trip can include.
type Attraction struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Place
	OpeningHours string   `json:"openingHours"`
	EntryFee     *float64 `json:"entryFee"`
	Facilities   []string `json:"facilities"`
	Tags         []string `json:"tags"`
	Tips         string   `json:"tips"`
	Metadata     Metadata `json:"metadata"`
	Version      int64    `json:"-"`
}

func (a Attraction) Meta() Metadata  { return a.Metadata }
func (a Attraction) Revision() int64 { return a.Version }

func (a Attraction) Validate() error {
	if err := requireText("name", a.Name); err != nil {
		return err
	}
	if err := requireText("description", a.Description); err != nil {
		return err
	}
	if err := checkEnum("type", a.Type, AttractionTypes); err != nil {
		return err
	}
	if err := a.Place.validate(); err != nil {
		return err
	}
	if err := requireText("openingHours", a.OpeningHours); err != nil {
		return err
	}
	return checkAmount("entryFee", a.EntryFee)
}

func (a Attraction) WithMetadata(m Metadata) Attraction {
	a.Metadata = m
	if a.Facilities == nil {
		a.Facilities = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

// Snapshot projects the attraction into the record a trip embeds.
func (a Attraction) Snapshot() AttractionSnapshot {
	return AttractionSnapshot{ID: a.ID, Name: a.Name, Description: a.Description, EntryFee: a.EntryFee}
}

var AttractionAllowlist = placeFields(Allowlist{
	"type":         {Column: "type", Decode: OneOf(AttractionTypes...)},
	"openingHours": {Column: "opening_hours", Decode: RequiredText},
	"entryFee":     {Column: "entry_fee", Decode: OptionalNonNegative},
	"facilities":   {Column: "facilities", Decode: Strings},
})

// ---- Restaurant -------------------------------------------------------------

// Restaurant is a place to eat a trip can include.
type Restaurant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cuisine     string    `json:"cuisine"`
	Place
	OpeningHours string   `json:"openingHours"`
	AverageCost  *float64 `json:"averageCost"`
	Rating       *float64 `json:"rating"`
	Tags         []string `json:"tags"`
	Tips         string   `json:"tips"`
	Metadata     Metadata `json:"metadata"`
	Version      int64    `json:"-"`
}

func (r Restaurant) Meta() Metadata  { return r.Metadata }
func (r Restaurant) Revision() int64 { return r.Version }

func (r Restaurant) Validate() error {
	if err := requireText("name", r.Name); err != nil {
		return err
	}
	if err := requireText("description", r.Description); err != nil {
		return err
	}
	if err := checkEnum("cuisine", r.Cuisine, Cuisines); err != nil {
		return err
	}
	if err := r.Place.validate(); err != nil {
		return err
	}
	if err := requireText("openingHours", r.OpeningHours); err != nil {
		return err
	}
	if r.Rating != nil && (*r.Rating < MinRating || *r.Rating > MaxRating) {
		return Invalid("rating must be between %d and %d", MinRating, MaxRating)
	}
	return checkAmount("averageCost", r.AverageCost)
}

func (r Restaurant) WithMetadata(m Metadata) Restaurant {
	r.Metadata = m
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return r
}

// Snapshot projects the restaurant into the record a trip embeds.
func (r Restaurant) Snapshot() RestaurantSnapshot {
	return RestaurantSnapshot{ID: r.ID, Name: r.Name, Description: r.Description, AverageCost: r.AverageCost}
}

var RestaurantAllowlist = placeFields(Allowlist{
	"cuisine":      {Column: "cuisine", Decode: OneOf(Cuisines...)},
	"openingHours": {Column: "opening_hours", Decode: RequiredText},
	"averageCost":  {Column: "average_cost", Decode: OptionalNonNegative},
	"rating":       {Column: "rating", Decode: OptionalRange(MinRating, MaxRating)},
})

// ---- Activity ---------------------------------------------------------------

// Activity is a scheduled thing to do a trip can include.
type Activity struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Place
	Date     time.Time `json:"date"`
	Duration string    `json:"duration"`
	Price    *float64  `json:"price"`
	Tags     []string  `json:"tags"`
	Tips     string    `json:"tips"`
	Metadata Metadata  `json:"metadata"`
	Version  int64     `json:"-"`
}

func (a Activity) Meta() Metadata  { return a.Metadata }
func (a Activity) Revision() int64 { return a.Version }

func (a Activity) Validate() error {
	if err := requireText("name", a.Name); err != nil {
		return err
	}
	if err := requireText("description", a.Description); err != nil {
		return err
	}
	if err := checkEnum("category", a.Category, ActivityCategories); err != nil {
		return err
	}
	if err := a.Place.validate(); err != nil {
		return err
	}
	if a.Date.IsZero() {
		return Invalid("date is required")
	}
	return checkAmount("price", a.Price)
}

func (a Activity) WithMetadata(m Metadata) Activity {
	a.Metadata = m
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

// Snapshot projects the activity into the record a trip embeds.
func (a Activity) Snapshot() ActivitySnapshot {
	return ActivitySnapshot{ID: a.ID, Name: a.Name, Description: a.Description, Price: a.Price}
}

var ActivityAllowlist = placeFields(Allowlist{
	"category": {Column: "category", Decode: OneOf(ActivityCategories...)},
	"date":     {Column: "date", Decode: Timestamp},
	"duration": {Column: "duration", Decode: Text},
	"price":    {Column: "price", Decode: OptionalNonNegative},
})
