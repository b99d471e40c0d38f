package repo

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-planner/internal/domain"
)

// Catalog repositories. Each shares the generic Store contract.
type (
	AttractionRepo = Store[domain.Attraction]
	RestaurantRepo = Store[domain.Restaurant]
	ActivityRepo   = Store[domain.Activity]
)

func NewAttractionRepo(db db) AttractionRepo { return newStore(db, attractionTable, "AttractionRepo") }
func NewRestaurantRepo(db db) RestaurantRepo { return newStore(db, restaurantTable, "RestaurantRepo") }
func NewActivityRepo(db db) ActivityRepo     { return newStore(db, activityTable, "ActivityRepo") }

// metaColumns trail every catalog column list, in scan order.
var metaColumns = []string{"owner_id", "owner_email", "created_at", "updated_at", "version"}

func withMeta(cols ...string) []string {
	return append(cols, metaColumns...)
}

func metaArgs(args pgx.NamedArgs, m domain.Metadata) pgx.NamedArgs {
	args["owner_id"] = m.OwnerID
	args["owner_email"] = m.OwnerEmail
	args["created_at"] = m.CreatedAt
	args["updated_at"] = m.UpdatedAt
	return args
}

// metaDest returns scan destinations for metaColumns. finish copies the
// scanned owner id into m once Scan has returned.
func metaDest(m *domain.Metadata, version *int64) (dest []any, finish func()) {
	var owner pgtype.UUID
	dest = []any{&owner, &m.OwnerEmail, &m.CreatedAt, &m.UpdatedAt, version}
	return dest, func() {
		m.OwnerID = uuid.UUID(owner.Bytes)
		m.CreatedAt = m.CreatedAt.UTC()
		m.UpdatedAt = m.UpdatedAt.UTC()
	}
}

var attractionTable = table[domain.Attraction]{
	name: "attractions",
	columns: withMeta("id", "name", "description", "type", "country", "city", "address",
		"opening_hours", "entry_fee", "facilities", "tags", "tips"),
	writable: []string{"name", "description", "type", "country", "city", "address",
		"opening_hours", "entry_fee", "facilities", "tags", "tips"},
	owner: "owner_id",
	scan: func(s scanner) (domain.Attraction, error) {
		var (
			a  domain.Attraction
			id pgtype.UUID
		)
		meta, finish := metaDest(&a.Metadata, &a.Version)
		dest := append([]any{&id, &a.Name, &a.Description, &a.Type, &a.Country, &a.City, &a.Address,
			&a.OpeningHours, &a.EntryFee, &a.Facilities, &a.Tags, &a.Tips}, meta...)
		if err := s.Scan(dest...); err != nil {
			return domain.Attraction{}, notFound(err)
		}
		finish()
		a.ID = uuid.UUID(id.Bytes)
		a.Facilities = nonNil(a.Facilities)
		a.Tags = nonNil(a.Tags)
		return a, nil
	},
	insert: func(a domain.Attraction) pgx.NamedArgs {
		return metaArgs(pgx.NamedArgs{
			"name":          a.Name,
			"description":   a.Description,
			"type":          a.Type,
			"country":       a.Country,
			"city":          a.City,
			"address":       a.Address,
			"opening_hours": a.OpeningHours,
			"entry_fee":     a.EntryFee,
			"facilities":    nonNil(a.Facilities),
			"tags":          nonNil(a.Tags),
			"tips":          a.Tips,
		}, a.Metadata)
	},
}

var restaurantTable = table[domain.Restaurant]{
	name: "restaurants",
	columns: withMeta("id", "name", "description", "cuisine", "country", "city", "address",
		"opening_hours", "average_cost", "rating", "tags", "tips"),
	writable: []string{"name", "description", "cuisine", "country", "city", "address",
		"opening_hours", "average_cost", "rating", "tags", "tips"},
	owner: "owner_id",
	scan: func(s scanner) (domain.Restaurant, error) {
		var (
			r  domain.Restaurant
			id pgtype.UUID
		)
		meta, finish := metaDest(&r.Metadata, &r.Version)
		dest := append([]any{&id, &r.Name, &r.Description, &r.Cuisine, &r.Country, &r.City, &r.Address,
			&r.OpeningHours, &r.AverageCost, &r.Rating, &r.Tags, &r.Tips}, meta...)
		if err := s.Scan(dest...); err != nil {
			return domain.Restaurant{}, notFound(err)
		}
		finish()
		r.ID = uuid.UUID(id.Bytes)
		r.Tags = nonNil(r.Tags)
		return r, nil
	},
	insert: func(r domain.Restaurant) pgx.NamedArgs {
		return metaArgs(pgx.NamedArgs{
			"name":          r.Name,
			"description":   r.Description,
			"cuisine":       r.Cuisine,
			"country":       r.Country,
			"city":          r.City,
			"address":       r.Address,
			"opening_hours": r.OpeningHours,
			"average_cost":  r.AverageCost,
			"rating":        r.Rating,
			"tags":          nonNil(r.Tags),
			"tips":          r.Tips,
		}, r.Metadata)
	},
}

var activityTable = table[domain.Activity]{
	name: "activities",
	columns: withMeta("id", "name", "description", "category", "country", "city", "address",
		"date", "duration", "price", "tags", "tips"),
	writable: []string{"name", "description", "category", "country", "city", "address",
		"date", "duration", "price", "tags", "tips"},
	owner: "owner_id",
	scan: func(s scanner) (domain.Activity, error) {
		var (
			a  domain.Activity
			id pgtype.UUID
		)
		meta, finish := metaDest(&a.Metadata, &a.Version)
		dest := append([]any{&id, &a.Name, &a.Description, &a.Category, &a.Country, &a.City, &a.Address,
			&a.Date, &a.Duration, &a.Price, &a.Tags, &a.Tips}, meta...)
		if err := s.Scan(dest...); err != nil {
			return domain.Activity{}, notFound(err)
		}
		finish()
		a.ID = uuid.UUID(id.Bytes)
		a.Date = a.Date.UTC()
		a.Tags = nonNil(a.Tags)
		return a, nil
	},
	insert: func(a domain.Activity) pgx.NamedArgs {
		return metaArgs(pgx.NamedArgs{
			"name":        a.Name,
			"description": a.Description,
			"category":    a.Category,
			"country":     a.Country,
			"city":        a.City,
			"address":     a.Address,
			"date":        a.Date,
			"duration":    a.Duration,
			"price":       a.Price,
			"tags":        nonNil(a.Tags),
			"tips":        a.Tips,
		}, a.Metadata)
	},
}
