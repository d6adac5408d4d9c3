package eghl

import "fmt"

// InvalidMethodError rejects HTTP methods the gateway integration never uses.
type InvalidMethodError struct {
	Method string
}

func (e *InvalidMethodError) Error() string {
	return fmt.Sprintf("unsupported request method %q", e.Method)
}

// ReadError wraps a failure to read the raw request body.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading gateway payload: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ResponseParseError marks a payload that does not match the gateway's
// response schema. Distinct from VerificationError: a parse failure is
// malformed input, not evidence of tampering.
type ResponseParseError struct {
	Field  string
	Reason string
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("gateway response field %s: %s", e.Field, e.Reason)
}

// VerificationError marks a signature mismatch. Security-significant: the
// payload parsed cleanly but was not signed with the shared secret.
type VerificationError struct {
	PaymentID string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("gateway response signature mismatch for payment %s", e.PaymentID)
}

// GatewayQueryError wraps a failed status-lookup call during the sweep.
type GatewayQueryError struct {
	PaymentID string
	Err       error
}

func (e *GatewayQueryError) Error() string {
	return fmt.Sprintf("gateway status query for %s: %v", e.PaymentID, e.Err)
}

func (e *GatewayQueryError) Unwrap() error { return e.Err }
