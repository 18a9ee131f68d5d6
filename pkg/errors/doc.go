// Package errors provides the structured error type used by pkgbump so that
// callers can branch on a stable error code instead of matching messages.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidManifest,
//	    "failed to decode manifest",
//	    cause,
//	    map[string]any{"path": path},
//	)
//
//	if errors.HasCode(err, errors.ErrCodeInvalidVersion) {
//	    // ask the user for a different version
//	}
package errors
