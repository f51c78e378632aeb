// Package bind decodes a JSON request body into a struct and validates it.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/shashiranjanraj/pcbuilder/pkg/validate"
)

const defaultMaxBody = 1 << 20

func maxBodyBytes() int64 {
	n := config.Int("MAX_BODY_BYTES", defaultMaxBody)
	if n <= 0 {
		return defaultMaxBody
	}
	return int64(n)
}

// JSON decodes r.Body into dest, capped at MAX_BODY_BYTES, then validates.
// An empty body validates the zero value. It returns (errs, nil) on
// validation failure and (nil, err) on a malformed or oversized body.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
