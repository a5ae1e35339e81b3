package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sellerapp "github.com/marketplace/backend/internal/application/seller"
	"github.com/marketplace/backend/internal/domain/shared"
)

type fakeOrderStream struct {
	served []uuid.UUID
	err    error
}

func (f *fakeOrderStream) Serve(w http.ResponseWriter, _ *http.Request, sellerID uuid.UUID) error {
	f.served = append(f.served, sellerID)
	if f.err != nil {
		return f.err
	}
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func TestStreamHandler_SellerOrders(t *testing.T) {
	userID, sellerID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		who        caller
		setup      func(*mockSellerService)
		streamErr  error
		wantStatus int
		wantServed bool
	}{
		{
			name:       "anonymous",
			who:        anonymous(),
			setup:      func(*mockSellerService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "not a seller",
			who:  asCustomer(userID),
			setup: func(m *mockSellerService) {
				m.On("GetMine", mock.Anything, userID).Return(nil, shared.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "pending seller",
			who:  asCustomer(userID),
			setup: func(m *mockSellerService) {
				m.On("GetMine", mock.Anything, userID).Return(&sellerapp.SellerResponse{ID: sellerID, Status: "pending"}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "approved seller",
			who:  asCustomer(userID),
			setup: func(m *mockSellerService) {
				m.On("GetMine", mock.Anything, userID).Return(&sellerapp.SellerResponse{ID: sellerID, Status: "approved"}, nil)
			},
			wantStatus: http.StatusSwitchingProtocols,
			wantServed: true,
		},
		{
			name: "handshake failure is not rewritten",
			who:  asCustomer(userID),
			setup: func(m *mockSellerService) {
				m.On("GetMine", mock.Anything, userID).Return(&sellerapp.SellerResponse{ID: sellerID, Status: "approved"}, nil)
			},
			streamErr:  errors.New("websocket: not a websocket handshake"),
			wantStatus: http.StatusOK,
			wantServed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sellers := new(mockSellerService)
			tt.setup(sellers)
			stream := &fakeOrderStream{err: tt.streamErr}

			r := newTestRouter(tt.who)
			r.GET("/seller/orders/stream", NewStreamHandler(sellers, stream).SellerOrders)
			w := doJSON(t, r, http.MethodGet, "/seller/orders/stream", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantServed {
				assert.Equal(t, []uuid.UUID{sellerID}, stream.served)
			} else {
				assert.Empty(t, stream.served)
			}
		})
	}
}
