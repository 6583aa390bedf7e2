package shared

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps how much of a request body is read.
const MaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned by ReadBody when the body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// ReadBody reads the full request body, bounded by MaxBodyBytes.
// A missing body yields an empty slice.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte{}, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}
