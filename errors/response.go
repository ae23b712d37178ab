package errors

import stderrors "errors"

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	return stderrors.AsType[*AppError](err)
}

// From maps err onto the taxonomy used at the HTTP boundary. Errors that
// carry no AppError become INTERNAL_ERROR with err as the cause.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
