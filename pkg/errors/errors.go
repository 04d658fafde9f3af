// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

// Package errors defines machine-readable error codes for all recall
// subsystems on top of samber/oops. Codes follow the pattern
// <subsystem>.<component>.<reason> so handlers can map failures to
// HTTP statuses without string matching on messages.
package errors

import (
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeEmbedProviderFailure Code = "embed.provider.failure"
	CodeEmbedConfigInvalid   Code = "embed.config.invalid"

	CodeMemoryDimensionMismatch Code = "memory.index.dimension_mismatch"
	CodeMemoryPersistFailure    Code = "memory.persist.failure"
	CodeMemoryLoadFailure       Code = "memory.load.failure"
	CodeMemoryOutOfRange        Code = "memory.metadata.out_of_range"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeServerRequestInvalid  Code = "server.request.invalid"
	CodeServerConfigInvalid   Code = "server.config.invalid"
	CodeServerStartFailure    Code = "server.start.failure"
	CodeServerInternalFailure Code = "server.internal.failure"

	CodeCLIServerNotRunning Code = "cli.server.not_running"
	CodeCLIRequestFailure   Code = "cli.request.failure"
	CodeCLIResponseInvalid  Code = "cli.response.invalid"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldSessionID(value string) Attr { return Field("session_id", value) }
func FieldURL(value string) Attr       { return Field("url", value) }
func FieldPath(value string) Attr      { return Field("path", value) }
func FieldProvider(value string) Attr  { return Field("provider", value) }

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(string(code)).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(string(code)).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}
	return oops.Code(string(code)).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(string(code)).Wrapf(err, format, args...)
}

// CodeOf extracts the Code from an error chain, or "" if none is present.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if s, ok := oopsErr.Code().(string); ok {
		return Code(s)
	}
	return ""
}

// FieldsOf returns the structured context attached to an error chain.
func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_value" || r == "invalid_format" || r == "dimension_mismatch"
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "out_of_range" || reason(CodeOf(err)) == "not_found"
}

func IsUpstreamFailure(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "embed.provider.")
}

// HTTPStatus maps an error to the HTTP status code a handler should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case HasCode(err, CodeServerRequestInvalid) || IsInvalidInput(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case HasCode(err, CodeCLIServerNotRunning):
		return http.StatusServiceUnavailable
	case IsUpstreamFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func reason(code Code) string {
	s := string(code)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func flatten(fields []Attr) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
