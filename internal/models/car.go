package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelType enumerates the supported fuel kinds.
type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
	FuelGas      FuelType = "gas"
	FuelOther    FuelType = "other"
)

// Car represents a client's vehicle.
type Car struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string             `bson:"owner_id" json:"owner_id"`
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	EngineVolume float64            `bson:"engine_volume,omitempty" json:"engine_volume,omitempty"`
	Fuel         FuelType           `bson:"fuel,omitempty" json:"fuel,omitempty"`
	LicensePlate string             `bson:"license_plate,omitempty" json:"license_plate,omitempty"`
	VIN          string             `bson:"vin,omitempty" json:"vin,omitempty"`
}

// CarGroupModelSpec is one make/model entry of a car group. Year bounds are
// recorded but are not applied as a filter when matching vehicles to groups.
type CarGroupModelSpec struct {
	Make     string `bson:"make" json:"make"`
	Model    string `bson:"model" json:"model"`
	YearFrom int    `bson:"year_from,omitempty" json:"year_from,omitempty"`
	YearTo   int    `bson:"year_to,omitempty" json:"year_to,omitempty"`
}

// CarGroup is a named set of vehicle specs sharing special pricing. Group
// order is significant: price resolution uses the first matching group.
type CarGroup struct {
	ID     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name   string              `bson:"name" json:"name"`
	Models []CarGroupModelSpec `bson:"models" json:"models"`
}

// MatchesCar reports whether any model spec in the group matches the car's
// make and model, case-insensitively.
func (g *CarGroup) MatchesCar(car *Car) bool {
	for _, spec := range g.Models {
		if strings.EqualFold(spec.Make, car.Make) && strings.EqualFold(spec.Model, car.Model) {
			return true
		}
	}
	return false
}
