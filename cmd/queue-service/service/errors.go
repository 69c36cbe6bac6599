package service

import "errors"

var (
	// ErrNotFound is returned for an unknown queue entry, appointment or QR code
	ErrNotFound = errors.New("not found")
	// ErrSlotUnavailable is returned when a booking overlaps or falls outside business hours
	ErrSlotUnavailable = errors.New("time slot not available")
	// ErrNoTableAvailable is returned when the table pool is exhausted
	ErrNoTableAvailable = errors.New("no table available")
	// ErrQueueEmpty is returned when calling the next customer of an empty queue
	ErrQueueEmpty = errors.New("queue is empty")
	// ErrQueueFull is returned when a queue already holds its maximum size
	ErrQueueFull = errors.New("queue is full")
	// ErrInvalidStatus is returned for a status change the endpoint does not allow
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrInvalidQueueType is returned for an out-of-range queue type
	ErrInvalidQueueType = errors.New("invalid queue type")
)

var (
	// ErrInvalidPatch is returned for a malformed or disallowed entry patch
	ErrInvalidPatch = errors.New("invalid patch")
	// ErrInvalidRequest is returned when a request fails field validation
	ErrInvalidRequest = errors.New("invalid request")
)
