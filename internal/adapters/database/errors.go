package database

import (
	"errors"
	"fmt"
)

// Sentinel kinds for connection errors.
var (
	ErrConnect        = errors.New("database connection failed")
	ErrUnknownDriver  = errors.New("unknown database driver")
	ErrConnectionUsed = errors.New("connection already closed")
)

// ConnectionError names the coordinates that could not be reached. The
// password is never included.
type ConnectionError struct {
	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Driver == driverSQLite {
		return fmt.Sprintf("failed to open sqlite database %s: %v", e.Database, e.Err)
	}
	return fmt.Sprintf("failed to connect to %s:%d/%s as %s: %v", e.Host, e.Port, e.Database, e.User, e.Err)
}

// Unwrap exposes both ErrConnect and the driver cause to errors.Is/As.
func (e *ConnectionError) Unwrap() []error { return []error{ErrConnect, e.Err} }
