package config

import "errors"

// Validation errors returned by Config.Validate. Layout problems are
// reported with the layout package's own errors.
var (
	ErrMissingSource    = errors.New("missing data source: hcahps and hospitalInfo are required")
	ErrInvalidChartSize = errors.New("invalid chart size: width, height and dpi must be positive")
	ErrMissingAddr      = errors.New("missing server address")
)

// ErrConfigNotFound is returned when an explicitly named config file does
// not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
