package pricing

import (
	"testing"

	"github.com/remserv/workshop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func buildSnapshot() (*Snapshot, models.Service, models.Car, models.CarGroup) {
	group := models.CarGroup{
		ID:   primitive.NewObjectID(),
		Name: "German Sedans",
		Models: []models.CarGroupModelSpec{
			{Make: "BMW", Model: "320i", YearFrom: 2015, YearTo: 2020},
		},
	}
	service := models.Service{
		ID:        primitive.NewObjectID(),
		Name:      "Oil Change",
		Category:  models.CategoryMaintenance,
		BasePrice: 100,
		PriceOverrides: map[string]float64{
			group.ID.Hex(): 150,
		},
	}
	car := models.Car{
		ID:    primitive.NewObjectID(),
		Make:  "BMW",
		Model: "320i",
		Year:  2018,
	}
	snap := &Snapshot{
		Services: []models.Service{service},
		Cars:     []models.Car{car},
		Groups:   []models.CarGroup{group},
	}
	return snap, service, car, group
}

func TestResolveGroupOverride(t *testing.T) {
	snap, service, car, _ := buildSnapshot()

	quote, err := snap.Resolve(service.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 150.0, quote.Price)
	assert.Equal(t, SourceGroup, quote.Source)
}

func TestResolveBaseFallbackNoMatchingGroup(t *testing.T) {
	snap, service, _, _ := buildSnapshot()
	other := models.Car{ID: primitive.NewObjectID(), Make: "Toyota", Model: "Camry", Year: 2019}
	snap.Cars = append(snap.Cars, other)

	quote, err := snap.Resolve(service.ID.Hex(), other.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Price)
	assert.Equal(t, SourceBase, quote.Source)
}

func TestResolveCaseInsensitiveMatch(t *testing.T) {
	snap, service, _, _ := buildSnapshot()
	shouty := models.Car{ID: primitive.NewObjectID(), Make: "bmw", Model: "320I", Year: 2017}
	snap.Cars = append(snap.Cars, shouty)

	quote, err := snap.Resolve(service.ID.Hex(), shouty.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 150.0, quote.Price)
	assert.Equal(t, SourceGroup, quote.Source)
}

func TestResolveMatchingGroupWithoutOverride(t *testing.T) {
	snap, service, car, _ := buildSnapshot()
	snap.Services[0].PriceOverrides = map[string]float64{}

	quote, err := snap.Resolve(service.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Price)
	assert.Equal(t, SourceBase, quote.Source)
}

func TestResolveFirstMatchingGroupWins(t *testing.T) {
	snap, service, car, first := buildSnapshot()

	// Second group also matches the car and carries a different override,
	// but the first matching group decides.
	second := models.CarGroup{
		ID:   primitive.NewObjectID(),
		Name: "All BMW",
		Models: []models.CarGroupModelSpec{
			{Make: "BMW", Model: "320i"},
		},
	}
	snap.Groups = append(snap.Groups, second)
	snap.Services[0].PriceOverrides[second.ID.Hex()] = 999

	quote, err := snap.Resolve(service.ID.Hex(), car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, snap.Services[0].PriceOverrides[first.ID.Hex()], quote.Price)
}

func TestResolveUnknownCarFallsBack(t *testing.T) {
	snap, service, _, _ := buildSnapshot()

	quote, err := snap.Resolve(service.ID.Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Price)
	assert.Equal(t, SourceBase, quote.Source)
}

func TestResolveEmptyCarID(t *testing.T) {
	snap, service, _, _ := buildSnapshot()

	quote, err := snap.Resolve(service.ID.Hex(), "")
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Price)
	assert.Equal(t, SourceBase, quote.Source)
}

func TestResolveUnknownService(t *testing.T) {
	snap, _, car, _ := buildSnapshot()

	_, err := snap.Resolve(primitive.NewObjectID().Hex(), car.ID.Hex())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
