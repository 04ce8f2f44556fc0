// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package gcperr maps errors returned by the Google Cloud SDKs to a small
// closed set of sentinel errors, so that call sites can handle failures
// uniformly regardless of which service or transport produced them.
package gcperr

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is an error, which is returned when the requested resource does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is an error, which is returned when the resource being
// created already exists.
var ErrAlreadyExists = errors.New("already exists")

// ErrPermissionDenied is an error, which is returned when the authenticated
// identity is not allowed to perform the operation.
var ErrPermissionDenied = errors.New("permission denied")

// ErrUnauthenticated is an error, which is returned when no usable credentials
// were presented with the request, or none could be resolved at all.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidArgument is an error, which is returned when the request was
// malformed or refers to an invalid resource name.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrFailedPrecondition is an error, which is returned when the operation was
// rejected because the system is not in the required state.
var ErrFailedPrecondition = errors.New("failed precondition")

// ErrUnavailable is an error, which is returned when the service is
// overloaded or temporarily unavailable.
var ErrUnavailable = errors.New("unavailable")

// sentinels contains the closed set of errors produced by [Translate].
var sentinels = []error{
	ErrNotFound,
	ErrAlreadyExists,
	ErrPermissionDenied,
	ErrUnauthenticated,
	ErrInvalidArgument,
	ErrFailedPrecondition,
	ErrUnavailable,
}

// Translate maps the given vendor SDK error to one of the package sentinel
// errors, preserving the original error message. Errors which do not
// classify are returned unchanged. Translate never swallows an error and
// performs no retries.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	// Already translated errors pass through unchanged.
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if sentinel := fromHTTPCode(apiErr.Code); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, err)
		}

		return err
	}

	if st, ok := status.FromError(err); ok {
		if sentinel := fromGRPCCode(st.Code()); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, err)
		}
	}

	return err
}

func fromHTTPCode(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrAlreadyExists
	case http.StatusPreconditionFailed:
		return ErrFailedPrecondition
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return nil
	}
}

func fromGRPCCode(code codes.Code) error {
	switch code {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.PermissionDenied:
		return ErrPermissionDenied
	case codes.Unauthenticated:
		return ErrUnauthenticated
	case codes.InvalidArgument:
		return ErrInvalidArgument
	case codes.FailedPrecondition:
		return ErrFailedPrecondition
	case codes.ResourceExhausted, codes.Unavailable:
		return ErrUnavailable
	default:
		return nil
	}
}

// IsNotFound returns true, if the given error classifies as [ErrNotFound].
func IsNotFound(err error) bool {
	return errors.Is(Translate(err), ErrNotFound)
}

// IsAlreadyExists returns true, if the given error classifies as
// [ErrAlreadyExists].
func IsAlreadyExists(err error) bool {
	return errors.Is(Translate(err), ErrAlreadyExists)
}

// IsPermissionDenied returns true, if the given error classifies as
// [ErrPermissionDenied].
func IsPermissionDenied(err error) bool {
	return errors.Is(Translate(err), ErrPermissionDenied)
}

// IsUnauthenticated returns true, if the given error classifies as
// [ErrUnauthenticated].
func IsUnauthenticated(err error) bool {
	return errors.Is(Translate(err), ErrUnauthenticated)
}
