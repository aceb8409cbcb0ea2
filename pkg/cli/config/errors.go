package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateEntry  = goerr.New("duplicate entry")
	ErrUnknownUser     = goerr.New("unknown user")
	ErrUnknownClient   = goerr.New("unknown client")
	ErrUnknownRole     = goerr.New("unknown role")
	ErrMissingName     = goerr.New("name is required")
	ErrMissingSecret   = goerr.New("jwt secret is required unless --no-auth is set")
	ErrInvalidDuration = goerr.New("duration must be positive")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BackendKey    = "backend"
	UsernameKey   = "username"
	ClientKey     = "client"
	CaseKey       = "case"
	RoleKey       = "role"
	IndexKey      = "index"
)
