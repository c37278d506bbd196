// Package errors provides the application error type shared by the
// repository, service and handler layers.
//
// Repositories translate driver errors (missing rows, unique and foreign key
// violations) into AppError values; services add domain failures such as a
// second primary tenant for a property or a blocked delete; handlers turn an
// AppError into an HTTP status and JSON envelope.
//
// # Usage
//
//	return apperrors.NotFound("tenant")
//	return apperrors.Conflict("property already has a primary tenant")
//
//	if apperrors.IsNotFound(err) {
//	    // Handle not found
//	}
//
// Errors survive wrapping with fmt.Errorf and %w.
package errors
