package order

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/event"
	"github.com/marketplace/backend/internal/application/transaction"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound = shared.NewDomainError("NOT_FOUND", "Order not found")
	ErrNotASeller    = shared.NewDomainError("FORBIDDEN", "You do not have a seller account")
)

// OrderService serves buyers, sellers and admins over placed orders
type OrderService struct {
	orderRepo  order.OrderRepository
	sellerRepo seller.SellerRepository
	scope      transaction.Scope
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	sellerRepo seller.SellerRepository,
	scope transaction.Scope,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		sellerRepo: sellerRepo,
		scope:      scope,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

func (s *OrderService) list(ctx context.Context, filter order.Filter, f OrderListFilter) ([]order.Order, int64, order.Filter, error) {
	norm := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	filter.Page = norm.Page
	filter.PageSize = norm.PageSize
	filter.Keyword = strings.TrimSpace(f.Search)
	if f.Status != "" {
		status := order.Status(f.Status)
		filter.Status = &status
	}
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	return orders, total, filter, err
}

func paginate(orders []order.Order, total int64, filter order.Filter) *shared.Paginated[OrderResponse] {
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page
}

// ListMine returns the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, f OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	orders, total, filter, err := s.list(ctx, order.Filter{UserID: &userID}, f)
	if err != nil {
		return nil, err
	}
	return paginate(orders, total, filter), nil
}

// GetMine returns one of the caller's orders
func (s *OrderService) GetMine(ctx context.Context, userID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(userID) {
		return nil, ErrOrderNotFound
	}
	return ToOrderResponse(o), nil
}

// Lookup finds a guest order by number and contact email
func (s *OrderService) Lookup(ctx context.Context, req LookupRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, strings.ToUpper(strings.TrimSpace(req.Number)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !o.MatchesGuest(req.Email) {
		return nil, ErrOrderNotFound
	}
	return ToOrderResponse(o), nil
}

func (s *OrderService) find(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// Cancel cancels one of the caller's pending orders and restores stock
func (s *OrderService) Cancel(ctx context.Context, userID, id uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(userID) {
		return nil, ErrOrderNotFound
	}
	if o.Status != order.StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Only pending orders can be cancelled")
	}
	reason := req.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by customer"
	}
	return s.cancelAndRestock(ctx, id, reason)
}

// cancelAndRestock cancels inside a transaction and puts the ordered
// quantities back on the shelf
func (s *OrderService) cancelAndRestock(ctx context.Context, id uuid.UUID, reason string) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "Cancel", telemetry.AttrOrderID, id.String())
	defer span.End()

	var (
		cancelled *order.Order
		restocked []catalog.Product
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		o, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Cancel(reason); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(o.Items))
		for _, it := range o.Items {
			ids = append(ids, it.ProductID)
		}
		products, err := repos.Products().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for _, it := range o.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				// deleted since the order was placed
				continue
			}
			if err := p.IncreaseStock(it.Quantity); err != nil {
				return err
			}
		}
		for i := range products {
			if err := repos.Products().Save(ctx, &products[i]); err != nil {
				return err
			}
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		cancelled, restocked = o, products
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	sources := []event.EventSource{cancelled}
	for i := range restocked {
		sources = append(sources, &restocked[i])
	}
	event.PublishPending(ctx, s.publisher, sources...)

	logger.For(ctx, s.logger).Info("Order cancelled",
		zap.String("order_id", cancelled.ID.String()),
		zap.String("number", cancelled.Number),
		zap.String("reason", cancelled.CancelReason))
	return ToOrderResponse(cancelled), nil
}

func (s *OrderService) sellerOf(ctx context.Context, userID uuid.UUID) (*seller.Seller, error) {
	sl, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotASeller
		}
		return nil, err
	}
	return sl, nil
}

// ListForSeller returns orders containing the caller's products
func (s *OrderService) ListForSeller(ctx context.Context, userID uuid.UUID, f OrderListFilter) (*shared.Paginated[SellerOrderResponse], error) {
	sl, err := s.sellerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, total, filter, err := s.list(ctx, order.Filter{SellerID: &sl.ID}, f)
	if err != nil {
		return nil, err
	}
	items := make([]SellerOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToSellerOrderResponse(&orders[i], sl.ID)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ShipForSeller marks an order shipped by one of its sellers
func (s *OrderService) ShipForSeller(ctx context.Context, userID, id uuid.UUID, req ShipRequest) (*SellerOrderResponse, error) {
	sl, err := s.sellerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.HasSeller(sl.ID) {
		return nil, ErrOrderNotFound
	}
	if err := o.MarkShipped(req.TrackingNumber); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.publisher, o)

	logger.For(ctx, s.logger).Info("Order shipped",
		zap.String("order_id", o.ID.String()),
		zap.String("seller_id", sl.ID.String()),
		zap.String("tracking_number", o.TrackingNumber))
	resp := ToSellerOrderResponse(o, sl.ID)
	return &resp, nil
}

// List returns all orders for administration
func (s *OrderService) List(ctx context.Context, f OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	orders, total, filter, err := s.list(ctx, order.Filter{}, f)
	if err != nil {
		return nil, err
	}
	return paginate(orders, total, filter), nil
}

// Get returns any order for administration
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// UpdateStatus applies an admin transition. Cancelling restores stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if target == order.StatusCancelled {
		reason := req.Note
		if strings.TrimSpace(reason) == "" {
			reason = "Cancelled by administrator"
		}
		return s.cancelAndRestock(ctx, id, reason)
	}

	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.TransitionTo(target, req.Note); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.publisher, o)
	logger.For(ctx, s.logger).Info("Order status updated",
		zap.String("order_id", o.ID.String()),
		zap.String("status", string(o.Status)))
	return ToOrderResponse(o), nil
}
