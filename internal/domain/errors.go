package domain

import "errors"

var (
	// ErrSourceUnavailable means the CSV could not be fetched or opened.
	ErrSourceUnavailable = errors.New("data source unavailable")
	// ErrEmptyDataset means the source parsed but produced no usable records.
	ErrEmptyDataset = errors.New("dataset contains no records")
	// ErrMissingColumn means the CSV header lacks a required column.
	ErrMissingColumn = errors.New("required column missing")
	// ErrInvalidMode means a display mode is unknown or not allowed at a level.
	ErrInvalidMode = errors.New("invalid display mode")
	// ErrInvalidLevel means a visualization level other than 1 or 2 was requested.
	ErrInvalidLevel = errors.New("invalid visualization level")
	// ErrCellNotFound means no aggregate exists for the requested month.
	ErrCellNotFound = errors.New("cell not found")
	// ErrNoSnapshot means no dataset has been loaded yet.
	ErrNoSnapshot = errors.New("no snapshot loaded")
)
