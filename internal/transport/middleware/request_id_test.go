package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/dicionario-backend/pkg/ctxutil"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	incoming := uuid.NewString()
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "reuses incoming", header: incoming, wantSame: true},
		{name: "generates when missing"},
		{name: "replaces oversized", header: strings.Repeat("a", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotCtx string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCtx = ctxutil.RequestIDFromCtx(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-Id", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.NotEmpty(t, gotCtx)
			assert.Equal(t, gotCtx, rec.Header().Get("X-Request-Id"))
			if tt.wantSame {
				assert.Equal(t, tt.header, gotCtx)
			} else {
				assert.NotEqual(t, tt.header, gotCtx)
			}
		})
	}
}
