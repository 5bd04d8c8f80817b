package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for accounts, products, bids and orders
func GenerateID() string {
	return uuid.NewString()
}
