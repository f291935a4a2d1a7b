package baseline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachAdminRoutes(t *testing.T) {
	s, _, _ := openTestStore(t)
	_, err := s.Record(context.Background(), Baseline{RunID: "run-admin", Ticks: 3, Hash: ^uint64(0)})
	require.NoError(t, err)

	mux := http.NewServeMux()
	require.NoError(t, s.AttachAdminRoutes(mux))

	// Routes may answer 403 to non-local callers, but must be registered.
	for _, endpoint := range []string{"/debug/tailsql/", "/debug/baselines"} {
		t.Run(endpoint, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, endpoint, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			assert.NotEqual(t, http.StatusNotFound, w.Code)
		})
	}

	t.Run("listing from loopback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/debug/baselines", nil)
		req.RemoteAddr = "127.0.0.1:40000"
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Skipf("debug access refused from loopback: %d", w.Code)
		}
		var got []baselineJSON
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "run-admin", got[0].RunID)
		assert.Equal(t, "ffffffffffffffff", got[0].Hash)
	})
}
