package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/event"
	orderapp "github.com/marketplace/backend/internal/application/order"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/application/transaction"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound      = shared.NewDomainError("NOT_FOUND", "Checkout session not found")
	ErrOwnerRequired        = shared.NewDomainError("UNAUTHORIZED", "A user or guest identity is required")
	ErrProductUnavailable   = shared.NewDomainError("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available")
	ErrMethodUnavailable    = shared.NewDomainError("SHIPPING_METHOD_UNAVAILABLE", "The shipping method is not available for this address")
	ErrConfirmInProgress    = shared.NewDomainError("CONCURRENCY_CONFLICT", "This order is already being placed")
	ErrCartCurrencyMismatch = shared.NewDomainError("CHECKOUT_CURRENCY_MISMATCH", "Cart contains products priced in another currency")
)

// Quoter prices shipping for a destination
type Quoter interface {
	Quote(ctx context.Context, in shipping.QuoteInput) (*shipping.Quote, error)
}

// TaxCalculator computes tax for a destination
type TaxCalculator interface {
	Compute(ctx context.Context, country, state string, subtotal, shipping decimal.Decimal) (decimal.Decimal, error)
}

// Settings holds checkout tunables
type Settings struct {
	SessionTTL     time.Duration
	IdempotencyTTL time.Duration
}

// SettingsFromConfig reads checkout settings from the loaded config
func SettingsFromConfig(cfg config.CheckoutConfig) Settings {
	return Settings{SessionTTL: cfg.SessionTTL, IdempotencyTTL: cfg.IdempotencyTTL}
}

// CheckoutService drives checkout sessions from cart to placed order
type CheckoutService struct {
	sessionRepo checkout.SessionRepository
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	orderRepo   order.OrderRepository
	scope       transaction.Scope
	quoter      Quoter
	tax         TaxCalculator
	idempotency shared.IdempotencyStore
	settings    Settings
	publisher   shared.EventPublisher
	metrics     *telemetry.MarketplaceMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	sessionRepo checkout.SessionRepository,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
	scope transaction.Scope,
	quoter Quoter,
	tax TaxCalculator,
	idempotency shared.IdempotencyStore,
	settings Settings,
	logger *zap.Logger,
) *CheckoutService {
	if settings.SessionTTL <= 0 {
		settings.SessionTTL = checkout.DefaultSessionTTL
	}
	if settings.IdempotencyTTL <= 0 {
		settings.IdempotencyTTL = 24 * time.Hour
	}
	return &CheckoutService{
		sessionRepo: sessionRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		scope:       scope,
		quoter:      quoter,
		tax:         tax,
		idempotency: idempotency,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for checkout and order events
func (s *CheckoutService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

// SetBusinessMetrics sets the checkout funnel counters
func (s *CheckoutService) SetBusinessMetrics(m *telemetry.MarketplaceMetrics) {
	s.metrics = m
}

func (s *CheckoutService) stage(ctx context.Context, name string) {
	if s.metrics != nil {
		s.metrics.RecordCheckout(ctx, name)
	}
}

func (s *CheckoutService) findCart(ctx context.Context, owner Owner) (*cart.Cart, error) {
	var (
		c   *cart.Cart
		err error
	)
	switch {
	case owner.UserID != nil:
		c, err = s.cartRepo.FindByUserID(ctx, *owner.UserID)
	case owner.GuestID != "":
		c, err = s.cartRepo.FindByGuestID(ctx, owner.GuestID)
	default:
		return nil, ErrOwnerRequired
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, checkout.ErrCheckoutEmpty
	}
	return c, err
}

// snapshot re-reads every cart product and captures current prices
func (s *CheckoutService) snapshot(ctx context.Context, c *cart.Cart) ([]checkout.Item, error) {
	products, err := s.productRepo.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]checkout.Item, 0, len(c.Items))
	for _, line := range c.Items {
		p, ok := byID[line.ProductID]
		if !ok || !p.IsPurchasable() {
			return nil, shared.NewDomainError(ErrProductUnavailable.Code,
				fmt.Sprintf("%s is no longer available", line.ProductName))
		}
		if line.Quantity > p.Stock {
			return nil, shared.NewDomainError(shared.ErrInsufficientStock.Code,
				fmt.Sprintf("Only %d of %s available", p.Stock, p.Name))
		}
		if p.Currency != c.Currency {
			return nil, ErrCartCurrencyMismatch
		}
		items = append(items, checkout.Item{
			ProductID:   p.ID,
			SellerID:    p.SellerID,
			ProductName: p.Name,
			SKU:         p.SKU,
			UnitPrice:   p.Price,
			UnitWeight:  p.Weight,
			Quantity:    line.Quantity,
		})
	}
	return items, nil
}

// cancelOpen cancels the owner's earlier sessions so only one is live
func (s *CheckoutService) cancelOpen(ctx context.Context, owner Owner) error {
	var (
		open []checkout.Session
		err  error
	)
	if owner.UserID != nil {
		open, err = s.sessionRepo.FindOpenByUser(ctx, *owner.UserID)
	} else {
		open, err = s.sessionRepo.FindOpenByGuest(ctx, owner.GuestID)
	}
	if err != nil {
		return err
	}
	for i := range open {
		if err := open[i].Cancel(); err != nil {
			continue
		}
		if err := s.sessionRepo.Save(ctx, &open[i]); err != nil {
			return err
		}
		event.PublishPending(ctx, s.publisher, &open[i])
	}
	return nil
}

// Initiate starts a checkout over the owner's cart
func (s *CheckoutService) Initiate(ctx context.Context, owner Owner, req InitiateRequest) (*SessionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "Initiate")
	defer span.End()

	c, err := s.findCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, checkout.ErrCheckoutEmpty
	}
	items, err := s.snapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.cancelOpen(ctx, owner); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	session, err := checkout.NewSession(checkout.Owner{
		UserID:  owner.UserID,
		GuestID: owner.GuestID,
		Email:   req.Email,
	}, c.ID, c.Currency, items, s.settings.SessionTTL, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	event.PublishPending(ctx, s.publisher, session)
	s.stage(ctx, "initiated")
	telemetry.SetAttributes(span, telemetry.AttrSessionID, session.ID.String())

	logger.For(ctx, s.logger).Info("Checkout initiated",
		zap.String("session_id", session.ID.String()),
		zap.Bool("guest", session.IsGuest()),
		zap.Int("items", len(items)),
		zap.String("subtotal", session.Subtotal.StringFixed(2)))
	return ToSessionResponse(session), nil
}

// load fetches a session the owner may see
func (s *CheckoutService) load(ctx context.Context, owner Owner, id uuid.UUID) (*checkout.Session, error) {
	if owner.IsZero() {
		return nil, ErrOwnerRequired
	}
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.BelongsTo(owner.UserID, owner.GuestID) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// expireIfDue persists a timed-out session as expired
func (s *CheckoutService) expireIfDue(ctx context.Context, session *checkout.Session) error {
	if session.Status == checkout.StatusExpired {
		return checkout.ErrCheckoutExpired
	}
	if session.Status.IsTerminal() || !session.IsExpired(s.now()) {
		return nil
	}
	if err := session.Expire(); err != nil {
		return err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}
	s.stage(ctx, "expired")
	return checkout.ErrCheckoutExpired
}

// loadOpen fetches a session for mutation
func (s *CheckoutService) loadOpen(ctx context.Context, owner Owner, id uuid.UUID) (*checkout.Session, error) {
	session, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfDue(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) applyTax(ctx context.Context, session *checkout.Session) error {
	amount, err := s.tax.Compute(ctx,
		session.ShippingAddress.Country, session.ShippingAddress.State,
		session.Subtotal, session.ShippingCost)
	if err != nil {
		return err
	}
	return session.ApplyTax(amount, s.now())
}

// Get returns a session
func (s *CheckoutService) Get(ctx context.Context, owner Owner, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfDue(ctx, session); err != nil && !errors.Is(err, checkout.ErrCheckoutExpired) {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// SetAddress records the destination and contact email and recomputes tax
func (s *CheckoutService) SetAddress(ctx context.Context, owner Owner, req AddressRequest) (*SessionResponse, error) {
	session, err := s.loadOpen(ctx, owner, req.SessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if req.Email != "" {
		if err := session.SetContactEmail(req.Email, now); err != nil {
			return nil, err
		}
	}
	if err := session.SetAddresses(req.ShippingAddress, req.BillingAddress, now); err != nil {
		return nil, err
	}
	if err := s.applyTax(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	s.stage(ctx, "address_provided")
	return ToSessionResponse(session), nil
}

func (s *CheckoutService) quote(ctx context.Context, session *checkout.Session) (*shipping.Quote, error) {
	if !session.HasAddress() {
		return nil, checkout.ErrAddressRequired
	}
	return s.quoter.Quote(ctx, session.QuoteInput(nil, s.now()))
}

// ShippingOptions prices every method available for the session's address
func (s *CheckoutService) ShippingOptions(ctx context.Context, owner Owner, id uuid.UUID) (*shippingapp.QuoteResponse, error) {
	session, err := s.loadOpen(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	q, err := s.quote(ctx, session)
	if err != nil {
		return nil, err
	}
	return shippingapp.ToQuoteResponse(q, session.Currency), nil
}

// SelectShipping applies a method priced server-side and recomputes tax
func (s *CheckoutService) SelectShipping(ctx context.Context, owner Owner, req SelectShippingRequest) (*SessionResponse, error) {
	session, err := s.loadOpen(ctx, owner, req.SessionID)
	if err != nil {
		return nil, err
	}
	q, err := s.quote(ctx, session)
	if err != nil {
		return nil, err
	}
	opt, ok := q.Find(req.MethodID)
	if !ok {
		return nil, ErrMethodUnavailable
	}
	if err := session.SelectShipping(*opt, s.now()); err != nil {
		return nil, err
	}
	if err := s.applyTax(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	s.stage(ctx, "shipping_selected")
	return ToSessionResponse(session), nil
}

// Cancel abandons a session
func (s *CheckoutService) Cancel(ctx context.Context, owner Owner, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.loadOpen(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := session.Cancel(); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.publisher, session)
	s.stage(ctx, "cancelled")
	return ToSessionResponse(session), nil
}

func idempotencyKey(sessionID uuid.UUID, key string) string {
	return "checkout:confirm:" + sessionID.String() + ":" + key
}

// ConfirmOrder places the order for a session. With an idempotency key a
// repeated request returns the order the first one placed.
func (s *CheckoutService) ConfirmOrder(ctx context.Context, owner Owner, req ConfirmRequest, key string) (*ConfirmResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "ConfirmOrder",
		telemetry.AttrSessionID, req.SessionID.String())
	defer span.End()

	session, err := s.load(ctx, owner, req.SessionID)
	if err != nil {
		return nil, err
	}

	reserved := ""
	if key != "" && s.idempotency != nil {
		k := idempotencyKey(session.ID, key)
		ok, err := s.idempotency.Reserve(ctx, k, s.settings.IdempotencyTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if !ok {
			return s.replay(ctx, k, session.ID)
		}
		reserved = k
	}

	placed, err := s.place(ctx, session)
	if err != nil {
		if reserved != "" {
			if rerr := s.idempotency.Release(ctx, reserved); rerr != nil {
				logger.For(ctx, s.logger).Warn("Failed to release idempotency key",
					zap.String("key", reserved), zap.Error(rerr))
			}
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	if reserved != "" {
		if err := s.idempotency.Complete(ctx, reserved, placed.ID.String(), s.settings.IdempotencyTTL); err != nil {
			logger.For(ctx, s.logger).Warn("Failed to store idempotency result",
				zap.String("key", reserved), zap.Error(err))
		}
	}

	telemetry.SetAttributes(span,
		telemetry.AttrOrderID, placed.ID.String(),
		telemetry.AttrOrderNumber, placed.Number)
	s.stage(ctx, "completed")
	logger.For(ctx, s.logger).Info("Order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("number", placed.Number),
		zap.String("session_id", session.ID.String()),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.String("currency", placed.Currency))
	return &ConfirmResponse{Order: orderapp.ToOrderResponse(placed)}, nil
}

// replay answers a repeated confirm. The stored result names the order;
// without one the first request is either still running or committed
// without recording its result, so the session's order decides.
func (s *CheckoutService) replay(ctx context.Context, key string, sessionID uuid.UUID) (*ConfirmResponse, error) {
	ref, err := s.idempotency.Result(ctx, key)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	if ref == "" {
		o, err = s.orderRepo.FindByCheckoutSession(ctx, sessionID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrConfirmInProgress
		}
		if err != nil {
			return nil, err
		}
	} else {
		orderID, err := uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("idempotency result %q: %w", ref, err)
		}
		o, err = s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
	}
	logger.For(ctx, s.logger).Info("Replayed confirmed order",
		zap.String("order_id", o.ID.String()))
	return &ConfirmResponse{Order: orderapp.ToOrderResponse(o), Replayed: true}, nil
}

// place runs the order transaction: stock, order, session, cart
func (s *CheckoutService) place(ctx context.Context, session *checkout.Session) (*order.Order, error) {
	if err := s.expireIfDue(ctx, session); err != nil {
		return nil, err
	}
	if err := session.CanComplete(s.now()); err != nil {
		return nil, err
	}

	var (
		placed    *order.Order
		completed *checkout.Session
		products  []catalog.Product
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		ids := make([]uuid.UUID, 0, len(session.Items))
		for _, it := range session.Items {
			ids = append(ids, it.ProductID)
		}
		locked, err := repos.Products().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}
		for _, it := range session.Items {
			p, ok := byID[it.ProductID]
			if !ok || !p.IsActive() {
				return shared.NewDomainError(ErrProductUnavailable.Code,
					fmt.Sprintf("%s is no longer available", it.ProductName))
			}
			if err := p.DecreaseStock(it.Quantity); err != nil {
				return err
			}
		}
		for i := range locked {
			if err := repos.Products().Save(ctx, &locked[i]); err != nil {
				return err
			}
		}

		o, err := order.NewOrderFromCheckout(session)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		if err := session.Complete(o.ID, s.now()); err != nil {
			return err
		}
		if err := repos.Sessions().Save(ctx, session); err != nil {
			return err
		}

		c, err := repos.Carts().FindByID(ctx, session.CartID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
		case err != nil:
			return err
		default:
			c.Clear()
			if err := repos.Carts().Save(ctx, c); err != nil {
				return err
			}
		}

		placed, completed, products = o, session, locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	sources := []event.EventSource{placed, completed}
	for i := range products {
		sources = append(sources, &products[i])
	}
	event.PublishPending(ctx, s.publisher, sources...)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, placed.Currency, placed.Total, placed.IsGuest())
	}
	return placed, nil
}

// MigrateGuestSessions hands a guest's open sessions to userID. Sessions
// that already timed out are expired instead.
func (s *CheckoutService) MigrateGuestSessions(ctx context.Context, guestID string, userID uuid.UUID) (int, error) {
	if guestID == "" {
		return 0, nil
	}
	open, err := s.sessionRepo.FindOpenByGuest(ctx, guestID)
	if err != nil {
		return 0, err
	}
	moved := 0
	for i := range open {
		session := &open[i]
		if session.IsExpired(s.now()) {
			if err := session.Expire(); err != nil {
				continue
			}
		} else {
			if err := session.AssignToUser(userID); err != nil {
				return moved, err
			}
			moved++
		}
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return moved, err
		}
	}
	return moved, nil
}
