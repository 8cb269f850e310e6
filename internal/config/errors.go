package config

import "errors"

// Sentinel errors for config operations
var (
	ErrNoConfig          = errors.New("no app config")
	ErrNoOrganization    = errors.New("organization_id not set")
	ErrUnsupportedFormat = errors.New("unsupported config format")
)
