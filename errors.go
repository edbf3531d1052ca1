package wormgear

import "fmt"

// ValidationError reports a malformed or dimensionally inconsistent design
// parameter. It is returned before any geometry is attempted.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid design: " + e.Msg
	}
	return fmt.Sprintf("invalid design: %s: %s", e.Field, e.Msg)
}

// ConfigurationError reports a feature requested without its prerequisite or
// a dimension outside a standard's covered range without a manual override.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// GeometryError reports a boolean, sweep or loft operation that could not
// produce valid geometry. Whether it aborts a build depends on the operation
// that raised it: structural cuts are fatal, per-tooth reliefs are skipped.
type GeometryError struct {
	Op  string // label of the failing operation
	Msg string
}

func (e *GeometryError) Error() string {
	if e.Op == "" {
		return "geometry: " + e.Msg
	}
	return fmt.Sprintf("geometry: %s: %s", e.Op, e.Msg)
}

// FileError reports a backend export failure.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
