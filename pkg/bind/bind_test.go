package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameInput struct {
	Name string `json:"name" validate:"required,max=10"`
}

func TestJSONDecodesAndValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"name":"Gaming"}`))
	var in renameInput
	errs, err := JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "Gaming", in.Name)
}

func TestJSONValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"name":"far too long a name"}`))
	var in renameInput
	errs, err := JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
}

func TestJSONEmptyBodyValidatesZeroValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var in renameInput
	errs, err := JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs["name"], "required")
}

func TestJSONMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	var in renameInput
	_, err := JSON(httptest.NewRecorder(), req, &in)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestJSONTooLarge(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "") })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	var in renameInput
	_, err := JSON(httptest.NewRecorder(), req, &in)
	assert.ErrorContains(t, err, "too large")
}
