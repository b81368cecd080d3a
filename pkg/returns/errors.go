package returns

// ReturnShipmentError indicates that a return shipment request could not
// be mapped into a web service request. The message is user-facing;
// the underlying cause stays wrapped and never crosses the pipeline
// boundary on its own.
type ReturnShipmentError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ReturnShipmentError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ReturnShipmentError) Unwrap() error {
	return e.Cause
}

// NewReturnShipmentError creates a ReturnShipmentError wrapping the cause.
func NewReturnShipmentError(message string, cause error) *ReturnShipmentError {
	return &ReturnShipmentError{
		Message: message,
		Cause:   cause,
	}
}
