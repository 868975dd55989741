package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/pricing"
	"storefront/internal/shipping"
)

// CartStore is the part of the cart store checkout needs.
type CartStore interface {
	Load(ctx context.Context) domain.Cart
	Clear(ctx context.Context) error
}

// Quoter prices a cart.
type Quoter interface {
	Summarize(c domain.Cart, postalCode string) pricing.Quote
}

// CustomerInput is the checkout form.
type CustomerInput struct {
	FullName   string `json:"fullName" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Address    string `json:"address" validate:"required,max=500"`
	PostalCode string `json:"pincode" validate:"required"`
}

// PlaceOrderInput is one checkout submission. SubmissionID, when set, makes
// retries of the same submission idempotent.
type PlaceOrderInput struct {
	SubmissionID  string        `json:"submissionId" validate:"omitempty,uuid"`
	PaymentMethod string        `json:"paymentMethod" validate:"omitempty,oneof=COD PREPAID"`
	Customer      CustomerInput `json:"customer"`
}

// Receipt is returned for a placed order.
type Receipt struct {
	OrderID string       `json:"orderId"`
	Order   domain.Order `json:"order"`
}

type Config struct {
	Cart     CartStore
	Quoter   Quoter
	Writer   Writer
	Notifier Notifier
	// Scope resolves the submission scope; defaults to cart.ScopeFrom.
	Scope   func(ctx context.Context) string
	Logger  *logger.Logger
	Metrics *metrics.Storefront
}

type Service struct {
	cart     CartStore
	quoter   Quoter
	writer   Writer
	notifier Notifier
	scope    func(ctx context.Context) string
	logger   *logger.Logger
	metrics  *metrics.Storefront
	inflight *inflight
	now      func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Cart == nil || cfg.Quoter == nil || cfg.Writer == nil {
		return nil, errors.New("order: cart, quoter and writer are required")
	}
	scope := cfg.Scope
	if scope == nil {
		scope = cart.ScopeFrom
	}
	return &Service{
		cart:     cfg.Cart,
		quoter:   cfg.Quoter,
		writer:   cfg.Writer,
		notifier: cfg.Notifier,
		scope:    scope,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		inflight: newInflight(),
		now:      time.Now,
	}, nil
}

// PlaceOrder validates the form, writes the order for the current cart and
// clears the cart once the write succeeds. A second call for the same scope
// while one is running fails with domain.ErrSubmissionInFlight. Any write
// failure leaves the cart as it was. Repeating a SubmissionID that is already
// stored returns the stored order and leaves the cart as it is.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput, user *domain.Identity) (Receipt, error) {
	scope := s.scope(ctx)
	release, ok := s.inflight.acquire(scope)
	if !ok {
		s.metrics.Order("in_flight")
		return Receipt{}, domain.ErrSubmissionInFlight
	}
	defer release()

	in = normalizeInput(in)
	if err := validateInput(in); err != nil {
		s.metrics.Order("invalid")
		return Receipt{}, err
	}

	if in.SubmissionID != "" {
		placed, err := s.writer.FindOrder(ctx, in.SubmissionID)
		switch {
		case err == nil:
			return s.replay(ctx, placed), nil
		case !errors.Is(err, domain.ErrNotFound):
			s.metrics.Order("failed")
			s.logger.Error(ctx, "order: lookup failed", err, "order_id", in.SubmissionID)
			return Receipt{}, fmt.Errorf("find order: %w: %w", domain.ErrUpstream, err)
		}
	}

	quote := s.quoter.Summarize(s.cart.Load(ctx), in.Customer.PostalCode)
	if quote.Summary.Empty {
		s.metrics.Order("empty")
		return Receipt{}, domain.ErrEmptyCart
	}

	o := s.build(in, quote, user)
	id, err := s.writer.CreateOrder(ctx, o)
	switch {
	case errors.Is(err, domain.ErrDuplicateOrder):
		// Another writer stored this submission between lookup and create.
		// The stored order stands; the current cart is left alone.
		placed, ferr := s.writer.FindOrder(ctx, o.ID)
		if ferr != nil {
			s.metrics.Order("failed")
			s.logger.Error(ctx, "order: lookup after duplicate failed", ferr, "order_id", o.ID)
			return Receipt{}, fmt.Errorf("find order: %w: %w", domain.ErrUpstream, ferr)
		}
		return s.replay(ctx, placed), nil
	case err != nil:
		s.metrics.Order("failed")
		s.logger.Error(ctx, "order: create failed", err, "scope", scope)
		return Receipt{}, fmt.Errorf("create order: %w: %w", domain.ErrUpstream, err)
	}
	o.ID = id

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, o); err != nil {
			s.logger.Error(ctx, "order: supplier notification failed", err, "order_id", id)
		}
	}
	if err := s.cart.Clear(ctx); err != nil {
		s.logger.Error(ctx, "order: clearing cart failed", err, "order_id", id)
	}

	s.metrics.Order("created")
	s.logger.Info(ctx, "order: placed", "order_id", id, "grand_total_cents", o.Totals.GrandTotalCents)
	return Receipt{OrderID: id, Order: o}, nil
}

// replay answers a repeated submission with the order already stored. It
// neither notifies suppliers nor touches the cart.
func (s *Service) replay(ctx context.Context, placed domain.Order) Receipt {
	s.metrics.Order("duplicate")
	s.logger.Info(ctx, "order: duplicate submission", "order_id", placed.ID)
	return Receipt{OrderID: placed.ID, Order: placed}
}

func (s *Service) build(in PlaceOrderInput, q pricing.Quote, user *domain.Identity) domain.Order {
	o := domain.Order{
		ID:            in.SubmissionID,
		CreatedAt:     s.now().UTC(),
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: domain.PaymentStatusPending,
		Customer: domain.OrderCustomer{
			FullName:   in.Customer.FullName,
			Phone:      in.Customer.Phone,
			Email:      in.Customer.Email,
			Address:    in.Customer.Address,
			PostalCode: in.Customer.PostalCode,
		},
		Totals: domain.OrderTotals{
			ItemsCount:       q.Summary.ItemsCount,
			ListTotalCents:   q.Summary.ListTotalCents,
			SellTotalCents:   q.Summary.SellTotalCents,
			DiscountCents:    q.Summary.DiscountCents,
			DeliveryFeeCents: q.Summary.DeliveryFeeCents,
			GrandTotalCents:  q.Summary.GrandTotalCents,
		},
		Items:     make([]domain.OrderItem, 0, len(q.Items)),
		Suppliers: make(map[string]domain.SupplierShare),
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if in.PaymentMethod == domain.PaymentPrepaid {
		o.PaymentStatus = domain.PaymentStatusPaid
	}
	if user != nil {
		u := *user
		o.User = &u
	}

	for _, item := range q.Items {
		if o.Currency == "" {
			o.Currency = item.Product.Currency
		}
		supplier := item.Product.SupplierID
		if supplier == "" {
			supplier = domain.DefaultSupplierID
		}
		line := domain.OrderItem{
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			Quantity:   item.Quantity,
			PriceCents: item.Product.PriceCents,
			MRPCents:   item.Product.ListPriceCents(),
			SupplierID: supplier,
		}
		o.Items = append(o.Items, line)

		share := o.Suppliers[supplier]
		share.Items = append(share.Items, line)
		share.TotalCents += item.LineSellTotalCents
		o.Suppliers[supplier] = share
	}
	return o
}

func normalizeInput(in PlaceOrderInput) PlaceOrderInput {
	in.SubmissionID = strings.TrimSpace(in.SubmissionID)
	in.PaymentMethod = strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentCOD
	}
	c := &in.Customer
	c.FullName = strings.TrimSpace(c.FullName)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.PostalCode = strings.TrimSpace(c.PostalCode)
	return in
}

func validateInput(in PlaceOrderInput) error {
	var verr *domain.ValidationError
	if err := validate.Struct(in); err != nil {
		e := validationError(err)
		if !errors.As(e, &verr) {
			return e
		}
	}
	if in.Customer.PostalCode != "" && !shipping.ValidPostalCode(in.Customer.PostalCode) {
		if verr == nil {
			verr = &domain.ValidationError{Fields: map[string]string{}}
		}
		verr.Fields["customer.pincode"] = shipping.InvalidMessage
	}
	if verr != nil {
		return verr
	}
	return nil
}
