package config

import (
	"errors"
)

var (
	// ErrConfigIsNil is returned when a nil configuration is passed.
	ErrConfigIsNil = errors.New("config cannot be nil")

	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySessionCookieName is returned when webserver.session.cookiename is empty.
	ErrEmptySessionCookieName = errors.New("toml config webserver.session.cookiename can not be empty")

	// ErrUnknownGormEngine is returned for an unsupported db.gormengine.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be mysql, postgres or sqlite")

	// ErrUnknownStorageBackend is returned for an unsupported storage.backend.
	ErrUnknownStorageBackend = errors.New("toml config storage.backend must be local or s3")

	// ErrUnknownSessionBackend is returned for an unsupported session.backend.
	ErrUnknownSessionBackend = errors.New("toml config session.backend must be memory, sql or redis")
)
