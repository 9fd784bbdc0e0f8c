package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrCommissionOutOfRange = errors.New("commission percentage must be between 0 and 100")

// Master represents a workshop mechanic.
type Master struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName            string             `bson:"first_name" json:"first_name"`
	LastName             string             `bson:"last_name" json:"last_name"`
	Specialization       string             `bson:"specialization" json:"specialization"`
	CommissionPercentage float64            `bson:"commission_percentage" json:"commission_percentage"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TelegramChatID       string             `bson:"telegram_chat_id,omitempty" json:"telegram_chat_id,omitempty"`
}

// Validate checks the master's invariants.
func (m *Master) Validate() error {
	if m.CommissionPercentage < 0 || m.CommissionPercentage > 100 {
		return ErrCommissionOutOfRange
	}
	return nil
}
