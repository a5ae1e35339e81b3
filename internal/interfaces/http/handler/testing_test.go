package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// caller describes who a test request is made as
type caller struct {
	userID  uuid.UUID
	role    string
	guestID string
}

func asCustomer(id uuid.UUID) caller { return caller{userID: id, role: "customer"} }
func asGuest(id string) caller       { return caller{guestID: id} }
func anonymous() caller              { return caller{} }

// newTestRouter returns an engine whose requests carry the caller's identity
func newTestRouter(who caller) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if who.userID != uuid.Nil {
			middleware.SetJWTClaims(c, &auth.Claims{UserID: who.userID.String(), Role: who.role})
		}
		if who.guestID != "" {
			c.Set(middleware.GuestIDKey, who.guestID)
		}
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
