// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers shared by the vault
// packages.
package utils

import "github.com/google/uuid"

// UUIDGenerator issues record identifiers. UUIDv7 ids are time-ordered and
// carry 74 random bits, so an id is never handed out twice, even for a
// record recreated with the same title.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
