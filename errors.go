package containers

import (
	"errors"
	"fmt"
)

var ErrSchemaNotFound = errors.New("schema object not found")

// SchemaNotFoundError is returned by verification when an expected catalog entity is missing.
type SchemaNotFoundError struct {
	Kind string
	Name string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("%s [%s] not found", e.Kind, e.Name)
}

func (e *SchemaNotFoundError) Is(target error) bool {
	return target == ErrSchemaNotFound
}

// ProvisionError means the container engine could not start the container.
type ProvisionError struct {
	Image string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision container %s, %s", e.Image, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// ResourceAccessError reports an I/O failure while reading from or writing to an external resource.
// Both Message and Err are optional.
type ResourceAccessError struct {
	Message string
	Err     error
}

func NewResourceAccessError(message string, err error) *ResourceAccessError {
	return &ResourceAccessError{Message: message, Err: err}
}

func (e *ResourceAccessError) Error() string {
	return joinMessage("resource access failed", e.Message, e.Err)
}

func (e *ResourceAccessError) Unwrap() error {
	return e.Err
}

// ResourceNotFoundError reports that the external resource itself does not exist.
// Both Message and Err are optional.
type ResourceNotFoundError struct {
	Message string
	Err     error
}

func NewResourceNotFoundError(message string, err error) *ResourceNotFoundError {
	return &ResourceNotFoundError{Message: message, Err: err}
}

func (e *ResourceNotFoundError) Error() string {
	return joinMessage("resource not found", e.Message, e.Err)
}

func (e *ResourceNotFoundError) Unwrap() error {
	return e.Err
}

func joinMessage(fallback, message string, err error) string {
	switch {
	case message != "" && err != nil:
		return message + ", " + err.Error()
	case message != "":
		return message
	case err != nil:
		return err.Error()
	default:
		return fallback
	}
}
