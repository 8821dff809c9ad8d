package domain

import (
	"errors"
	"fmt"
	"strings"
)

// PrivilegeError indicates the caller lacks the elevated privilege a
// mutating operation requires. Fatal and user-facing; never retried.
type PrivilegeError struct {
	Op string // operation that was refused, e.g. "block"
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("%s requires root privileges (run with sudo)", e.Op)
}

// PlatformError indicates the host lacks a mechanism this system depends
// on (immutable file attribute, scheduled execution).
type PlatformError struct {
	Reason string
}

func (e *PlatformError) Error() string {
	return "unsupported platform: " + e.Reason
}

// ExternalToolError wraps a failed invocation of an external OS command.
// Whether it is fatal is decided at the call site: load-bearing steps
// propagate it, best-effort steps log and continue.
type ExternalToolError struct {
	Cmd    []string
	Output string
	Err    error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", strings.Join(e.Cmd, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates an expected input file is missing. Raised
// before any side effect occurs.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Path
}

// IsPrivilege reports whether err is (or wraps) a PrivilegeError.
func IsPrivilege(err error) bool {
	var pe *PrivilegeError
	return errors.As(err, &pe)
}

// IsPlatform reports whether err is (or wraps) a PlatformError.
func IsPlatform(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
