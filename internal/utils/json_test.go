package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestDecodeJSONRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    io.Reader
		wantErr bool
	}{
		{"valid", strings.NewReader(`{"name":"x"}`), false},
		{"unknown field", strings.NewReader(`{"other":1}`), true},
		{"malformed", strings.NewReader(`{`), true},
		{"read failure", failingReader{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &trackingBody{Reader: tt.body}
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r.Body = body

			var dst struct {
				Name string `json:"name"`
			}
			err := DecodeJSONRequest(r, &dst)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "x", dst.Name)
			}
			assert.True(t, body.closed)
		})
	}
}
