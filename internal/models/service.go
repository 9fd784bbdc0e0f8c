package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNegativePrice = errors.New("price must not be negative")

// ServiceCategory groups price-list entries.
type ServiceCategory string

const (
	CategoryChassis     ServiceCategory = "chassis"
	CategoryEngine      ServiceCategory = "engine"
	CategoryBrakes      ServiceCategory = "brakes"
	CategoryMaintenance ServiceCategory = "maintenance"
	CategoryDiagnostics ServiceCategory = "diagnostics"
)

// Service is one price-list entry. PriceOverrides maps car group IDs to a
// special unit price; a group with no entry uses BasePrice.
type Service struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Category       ServiceCategory    `bson:"category" json:"category"`
	BasePrice      float64            `bson:"base_price" json:"base_price"`
	PriceOverrides map[string]float64 `bson:"price_overrides,omitempty" json:"price_overrides,omitempty"`
}

// Validate checks the service's price invariants.
func (s *Service) Validate() error {
	if s.BasePrice < 0 {
		return ErrNegativePrice
	}
	for _, price := range s.PriceOverrides {
		if price < 0 {
			return ErrNegativePrice
		}
	}
	return nil
}
