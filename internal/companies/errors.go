package companies

import "errors"

var (
	ErrCompanyNotFound = errors.New("Company not found")
	ErrNameTaken       = errors.New("Company with this name already exists")
	ErrMissingFields   = errors.New("All fields are required")
	ErrInvalidESGScore = errors.New("ESG score must be between 1 and 10")
	ErrInvalidPrice    = errors.New("Valid price is required")
	ErrInvalidShares   = errors.New("Available shares must not be negative")
)
