// File: internal/services/dbconn/errors.go
package dbconn

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/go-sql-driver/mysql"
)

// Reason is a machine-checkable code distinguishing connection failures.
type Reason string

const (
	ReasonRefused       Reason = "refused"
	ReasonUnauthorized  Reason = "unauthorized"
	ReasonNotFound      Reason = "not_found"
	ReasonTransportLost Reason = "transport_lost"
	ReasonNoDatabase    Reason = "no_database"
	ReasonOther         Reason = "other"
)

// MySQL server error numbers the manager maps to reasons.
const (
	mysqlErrAccessDenied   = 1045
	mysqlErrUnknownDB      = 1049
	mysqlErrDBAccessDenied = 1044
)

// ConnError describes a failure to reach or keep the external database.
type ConnError struct {
	Reason    Reason
	Operation string
	Message   string
	Cause     error
}

func (e *ConnError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection %s error in %s: %s (caused by: %v)",
			e.Reason, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("connection %s error in %s: %s", e.Reason, e.Operation, e.Message)
}

func (e *ConnError) Unwrap() error { return e.Cause }

func newConnError(op string, cause error) *ConnError {
	return &ConnError{
		Reason:    classifyCause(cause),
		Operation: op,
		Message:   causeMessage(cause),
		Cause:     cause,
	}
}

// classifyCause maps driver and transport errors onto reason codes.
func classifyCause(err error) Reason {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrAccessDenied, mysqlErrDBAccessDenied:
			return ReasonUnauthorized
		case mysqlErrUnknownDB:
			return ReasonNotFound
		}
		return ReasonOther
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return ReasonRefused
	}
	if errors.Is(err, io.EOF) || errors.Is(err, mysql.ErrInvalidConn) {
		return ReasonTransportLost
	}
	return ReasonOther
}

func causeMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsTransportError reports whether the query failed because the handle went
// bad rather than because the statement was rejected by the server.
func IsTransportError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// The server answered; the statement itself failed.
		return false
	}
	return true
}
