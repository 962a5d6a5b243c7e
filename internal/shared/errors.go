package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Augmentation pipeline errors
	ErrNoMatch          = fmt.Errorf("no candidate matched")
	ErrAggregation      = fmt.Errorf("context aggregation failed")
	ErrSchemaValidation = fmt.Errorf("model output failed schema validation")

	// Storage and automation errors
	ErrStorage       = fmt.Errorf("storage operation failed")
	ErrTrackNotFound = fmt.Errorf("track not found")
	ErrAutomation    = fmt.Errorf("playlist automation failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
