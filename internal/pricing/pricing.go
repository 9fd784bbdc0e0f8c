package pricing

import (
	"errors"

	"github.com/remserv/workshop/internal/models"
)

// ErrServiceNotFound is returned when the requested service does not exist
// in the snapshot. A missing car or group is not an error: resolution falls
// back to the base price.
var ErrServiceNotFound = errors.New("service not found")

// PriceSource tells where a resolved price came from.
type PriceSource string

const (
	SourceBase  PriceSource = "base"
	SourceGroup PriceSource = "group"
)

// Quote is a resolved unit price for a service against a specific vehicle.
type Quote struct {
	Price  float64     `json:"price"`
	Source PriceSource `json:"source"`
}

// Snapshot is an immutable view of the catalogs price resolution reads.
// Resolution is a pure function of the snapshot: re-run it whenever a labor
// line is added, never cache a quote beyond the line it priced.
type Snapshot struct {
	Services []models.Service
	Cars     []models.Car
	Groups   []models.CarGroup
}

// Resolve returns the applicable unit price for a service and car. With an
// empty carID the base price applies. Otherwise the first car group with a
// model spec matching the car's make and model (case-insensitive) is
// consulted for a price override; groups are checked in catalog order, so
// group ordering is significant. Year bounds on model specs are stored but
// not applied as a filter.
func (s *Snapshot) Resolve(serviceID, carID string) (Quote, error) {
	service := s.findService(serviceID)
	if service == nil {
		return Quote{}, ErrServiceNotFound
	}
	if carID == "" {
		return Quote{Price: service.BasePrice, Source: SourceBase}, nil
	}

	car := s.findCar(carID)
	if car == nil {
		return Quote{Price: service.BasePrice, Source: SourceBase}, nil
	}

	for i := range s.Groups {
		group := &s.Groups[i]
		if !group.MatchesCar(car) {
			continue
		}
		if override, ok := service.PriceOverrides[group.ID.Hex()]; ok {
			return Quote{Price: override, Source: SourceGroup}, nil
		}
		// First matching group decides; no override there means base price.
		break
	}
	return Quote{Price: service.BasePrice, Source: SourceBase}, nil
}

func (s *Snapshot) findService(id string) *models.Service {
	for i := range s.Services {
		if s.Services[i].ID.Hex() == id {
			return &s.Services[i]
		}
	}
	return nil
}

func (s *Snapshot) findCar(id string) *models.Car {
	for i := range s.Cars {
		if s.Cars[i].ID.Hex() == id {
			return &s.Cars[i]
		}
	}
	return nil
}
