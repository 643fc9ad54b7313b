package errors

import "net/http"

var (
	ErrUnknownAlgorithm = New(
		"UNKNOWN_ALGORITHM",
		"Unknown correlation algorithm",
		http.StatusBadRequest,
	)

	ErrScheduleNotFound = New(
		"SCHEDULE_NOT_FOUND",
		"No cleaning schedule for address",
		http.StatusNotFound,
	)

	ErrNoScheduleData = New(
		"NO_SCHEDULE_DATA",
		"Schedules have not been analyzed yet",
		http.StatusServiceUnavailable,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
