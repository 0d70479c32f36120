package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Upload and scheduling errors
	ErrUploadFailed   = fmt.Errorf("upload failed")
	ErrQuotaExceeded  = fmt.Errorf("upload quota exceeded")
	ErrScheduleWindow = fmt.Errorf("publish time outside allowed scheduling window")

	// Run coordination errors
	ErrAlreadyRunning = fmt.Errorf("another scheduler run is already in progress")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
