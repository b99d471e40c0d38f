package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-planner/internal/domain"
)

func parse(t *testing.T, a domain.Allowlist, body string) (domain.Changes, error) {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return a.Parse(raw)
}

func TestAllowlist_Parse_MapsFieldsToColumns(t *testing.T) {
	ch, err := parse(t, domain.TripAllowlist, `{"name":"Rome Week","budget":1200,"startDate":"2025-06-01"}`)

	require.NoError(t, err)
	assert.Nil(t, ch.OwnerID)
	assert.Equal(t, "Rome Week", ch.Fields["name"])
	assert.Equal(t, 1200.0, ch.Fields["budget"])
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ch.Fields[domain.ColTripStartDate])
	assert.Equal(t, []string{"budget", "name", "start_date"}, ch.Fields.Columns())
}

func TestAllowlist_Parse_ExtractsOwnerID(t *testing.T) {
	ch, err := parse(t, domain.TripAllowlist, `{"ownerId":"u1","name":"x"}`)

	require.NoError(t, err)
	require.NotNil(t, ch.OwnerID)
	assert.Equal(t, "u1", *ch.OwnerID)
	assert.NotContains(t, ch.Fields, "ownerId")
}

// An owner-only body parses so the caller can answer Forbidden for a foreign
// owner; it still writes nothing.
func TestAllowlist_Parse_OwnerOnly(t *testing.T) {
	ch, err := parse(t, domain.TripAllowlist, `{"ownerId":"u1"}`)

	require.NoError(t, err)
	require.NotNil(t, ch.OwnerID)
	assert.Empty(t, ch.Fields)
	require.ErrorIs(t, ch.RequireFields(), domain.ErrValidation)
}

func TestAllowlist_Parse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":       `{"colour":"red"}`,
		"metadata":            `{"metadata":{"ownerID":"someone-else"}}`,
		"id":                  `{"id":"abc"}`,
		"empty patch":         `{}`,
		"negative budget":     `{"budget":-1}`,
		"blank name":          `{"name":"   "}`,
		"blank description":   `{"description":""}`,
		"bad date":            `{"startDate":"June first"}`,
		"duplicate snapshot":  `{"attractionsSnapshot":[{"id":"7f1d8f3e-8a53-4c1c-9a57-3c1b7f0b1a11"},{"id":"7f1d8f3e-8a53-4c1c-9a57-3c1b7f0b1a11"}]}`,
		"snapshot without id": `{"restaurantsSnapshot":[{"name":"x"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, domain.TripAllowlist, body)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAllowlist_Parse_SnapshotList(t *testing.T) {
	id := uuid.New()
	ch, err := parse(t, domain.TripAllowlist, `{"activitiesSnapshot":[{"id":"`+id.String()+`","name":"Vespa","price":80}]}`)

	require.NoError(t, err)
	list, ok := ch.Fields[domain.ColActivities].([]domain.ActivitySnapshot)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	require.NotNil(t, list[0].Price)
	assert.Equal(t, 80.0, *list[0].Price)
}

func TestAllowlist_Parse_CatalogEnumsAndNulls(t *testing.T) {
	_, err := parse(t, domain.RestaurantAllowlist, `{"cuisine":"Martian"}`)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = parse(t, domain.RestaurantAllowlist, `{"rating":6}`)
	require.ErrorIs(t, err, domain.ErrValidation)

	ch, err := parse(t, domain.RestaurantAllowlist, `{"averageCost":null,"rating":4.5}`)
	require.NoError(t, err)
	assert.Equal(t, (*float64)(nil), ch.Fields["average_cost"])
	rating := ch.Fields["rating"].(*float64)
	assert.Equal(t, 4.5, *rating)
}

func TestAllowlist_Parse_UserCannotChangeEmail(t *testing.T) {
	_, err := parse(t, domain.UserAllowlist, `{"email":"new@example.com"}`)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckTripPatch(t *testing.T) {
	existing := domain.Trip{
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, domain.CheckTripPatch(existing, domain.Patch{"name": "x"}))
	require.NoError(t, domain.CheckTripPatch(existing, domain.Patch{
		domain.ColTripEndDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}))
	require.ErrorIs(t, domain.CheckTripPatch(existing, domain.Patch{
		domain.ColTripStartDate: time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	}), domain.ErrValidation, "start equal to existing end")
}

func TestNewPageParams(t *testing.T) {
	one, big := 1, 500

	assert.False(t, domain.NewPageParams(nil, nil).Paged())
	assert.Equal(t, domain.PageParams{Page: 1, Limit: 20}, domain.NewPageParams(&one, nil))
	assert.Equal(t, domain.PageParams{Page: 1, Limit: domain.MaxPageLimit}, domain.NewPageParams(nil, &big))
	assert.Equal(t, 40, domain.PageParams{Page: 3, Limit: 20}.Offset())
}
