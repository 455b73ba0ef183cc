// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"strings"
)

// New creates a RodentError for the given code. Details is free-form context
// that is appended to the code's canonical message.
func New(code ErrorCode, details string) *RodentError {
	def, ok := errorDefinitions[code]
	if !ok {
		def = errorDefinition{message: "Unknown error", domain: DomainMisc}
	}
	return &RodentError{
		Code:     code,
		Domain:   def.domain,
		Message:  def.message,
		Details:  details,
		Metadata: make(map[string]string),
	}
}

// Wrap converts err into a RodentError with the given code. The original error
// stays reachable through errors.Unwrap. Wrapping a nil error returns nil.
func Wrap(err error, code ErrorCode) *RodentError {
	if err == nil {
		return nil
	}

	var re *RodentError
	if stderrors.As(err, &re) && re.Code == code {
		return re
	}

	e := New(code, err.Error())
	e.cause = err
	return e
}

// WithMetadata attaches a key/value pair and returns the receiver so calls
// can be chained.
func (e *RodentError) WithMetadata(key, value string) *RodentError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// WithMetadataMap merges all pairs of m into the error metadata.
func (e *RodentError) WithMetadataMap(m map[string]string) *RodentError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(e.Metadata, m)
	return e
}

func (e *RodentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s-%d] %s", e.Domain, e.Code, e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	return b.String()
}

func (e *RodentError) Unwrap() error {
	return e.cause
}

// Is reports whether target carries the same error code.
func (e *RodentError) Is(target error) bool {
	t, ok := target.(*RodentError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasCode reports whether any error in err's chain is a RodentError with code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if re, ok := err.(*RodentError); ok && re.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
