package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrOfficeNotFound      = errors.New("office not found")
	ErrScenarioNotFound    = errors.New("scenario not found")
	ErrRunNotFound         = errors.New("scenario run not found")
	ErrDuplicateOfficeCode = errors.New("office with this code already exists")
	ErrDuplicateLevel      = errors.New("level already configured for this role in the office")
	ErrUnknownRoleKind     = errors.New("unknown role kind")
	ErrInvalidScenario     = errors.New("scenario definition is invalid")
	ErrSimulationFailed    = errors.New("simulation aborted")
)
