package usecase

import "errors"

var (
	// ErrRunInProgress is returned when a run is triggered while another is active
	ErrRunInProgress = errors.New("pipeline run already in progress")

	// ErrCredentialsMissing is returned when the publish target credentials are not configured
	ErrCredentialsMissing = errors.New("WordPress credentials not provided, set WP_USERNAME, WP_PASSWORD and WP_API_URL")
)
