package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	ErrorResponse(w, r, http.StatusNotFound, "nothing here")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "nothing here", body.Error)
}

func TestWriteJSONResponseNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONResponse(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNoContent, map[string]string{"a": "b"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestWriteRawJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteRawJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, []byte(`{"items":[]}`))
	assert.Equal(t, `{"items":[]}`, w.Body.String())
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"name":"x"}`, ""},
		{"empty", ``, "must not be empty"},
		{"syntax", `{"name":}`, "badly-formed"},
		{"unknown field", `{"other":1}`, `unknown key "other"`},
		{"wrong type", `{"name":1}`, `field "name"`},
		{"trailing", `{"name":"x"}{}`, "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "x", dst.Name)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
