package todo

import "github.com/google/uuid"

// IDGenerator Produces record identifiers
type IDGenerator func() (string, error)

// NewUUID The default [IDGenerator], a random (version 4) RFC 4122 uuid
func NewUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
