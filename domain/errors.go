package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyPopulation    = errors.New("no students found")
	ErrModelUnavailable   = errors.New("cluster model unavailable")
	ErrInconsistentSchema = errors.New("feature columns do not match the cluster model")
	ErrNoRecommendations  = errors.New("no recommendations")
	ErrRecomputeFailed    = errors.New("cluster recompute failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
