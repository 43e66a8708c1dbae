package uuid

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid"
)

// ErrInvalidLength id length below 1
var ErrInvalidLength = errors.New("id length must be at least 1")

// Generator random id source for entities and one-shot tokens
type Generator interface {
	Generate() (string, error)
}

// NanoIDGenerator url-safe ids of a fixed length
type NanoIDGenerator struct {
	length int
}

var _ Generator = (*NanoIDGenerator)(nil)

// NewNanoIDGenerator create a generator of length sized ids
func NewNanoIDGenerator(length int) (*NanoIDGenerator, error) {
	if length < 1 {
		return nil, ErrInvalidLength
	}
	return &NanoIDGenerator{length: length}, nil
}

// Generate generate a new id
func (ns *NanoIDGenerator) Generate() (string, error) {
	id, err := gonanoid.Nanoid(ns.length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}
