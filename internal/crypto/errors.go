// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrEncryption is returned when an envelope could not be produced.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption is returned for every envelope that cannot be opened:
	// malformed base64, truncated input, authentication failure or an
	// unresolvable key.
	ErrDecryption = errors.New("decryption failed")

	// ErrInvalidKeyLength is returned when key material is not 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrUnwrapKey is returned when a wrapped key cannot be unwrapped,
	// usually because of a wrong passphrase.
	ErrUnwrapKey = errors.New("unwrap key failed")
)

// DecryptReason identifies why an envelope could not be opened. It is meant
// for logs only and is deliberately not part of the error message.
type DecryptReason string

const (
	ReasonMalformedEncoding    DecryptReason = "malformed_encoding"
	ReasonTooShort             DecryptReason = "too_short"
	ReasonAuthenticationFailed DecryptReason = "authentication_failed"
	ReasonKeyUnresolved        DecryptReason = "key_unresolved"
)

// DecryptError is the concrete error returned by [Engine.Decrypt].
// Its message is identical for every Reason.
type DecryptError struct {
	Reason DecryptReason
	cause  error
}

func (e *DecryptError) Error() string {
	return ErrDecryption.Error()
}

// Is makes errors.Is(err, ErrDecryption) hold.
func (e *DecryptError) Is(target error) bool {
	return target == ErrDecryption
}

// Cause returns the underlying failure for diagnostics. It is not exposed
// through Unwrap so the cause does not leak into wrapped error chains.
func (e *DecryptError) Cause() error {
	return e.cause
}

// DecryptReasonOf extracts the failure reason from err.
func DecryptReasonOf(err error) (DecryptReason, bool) {
	var de *DecryptError
	if errors.As(err, &de) {
		return de.Reason, true
	}
	return "", false
}

func newDecryptError(reason DecryptReason, cause error) error {
	return &DecryptError{Reason: reason, cause: cause}
}
