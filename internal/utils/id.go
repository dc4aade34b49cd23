package utils // package utils provides small helpers shared by several layers

import "github.com/google/uuid"

// NewID returns a random UUID v4 string used as slot and booking id.
func NewID() string {
	return uuid.NewString()
}
