package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gohttp "github.com/km-arc/dico/framework/http"
)

func TestRequest_Query(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?a=1", nil))

	assert.Equal(t, "1", req.Query("a"))
	assert.Equal(t, "", req.Query("b"))
	assert.Equal(t, "x", req.Query("b", "x"))
}

func TestRequest_Duration(t *testing.T) {
	tests := []struct {
		query   string
		want    time.Duration
		wantErr bool
	}{
		{"", time.Second, false},
		{"timeout=250ms", 250 * time.Millisecond, false},
		{"timeout=2s", 2 * time.Second, false},
		{"timeout=soon", 0, true},
		{"timeout=-1s", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))

			got, err := req.Duration("timeout", time.Second)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
