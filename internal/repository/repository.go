package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

// ErrAlreadyConfirmed is returned by DocumentRepository.Confirm when the row
// exists but is no longer PENDING. Missing rows surface as sql.ErrNoRows.
var ErrAlreadyConfirmed = errors.New("document already confirmed")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
