package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/internal/coupons"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/pagination"
)

// DefaultCurrency is the price denomination orders are settled in.
const DefaultCurrency = "BDT"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type couponRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, input coupons.RedeemInput) (*coupons.Redemption, error)
}

type shippingRates interface {
	AmountFor(ctx context.Context, area enums.DeliveryArea) (decimal.Decimal, error)
}

// AdminAction values accepted on the decision endpoint.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Service exposes checkout and admin order operations.
type Service interface {
	CreateOrder(ctx context.Context, userID *uuid.UUID, input CreateOrderRequest) (*OrderResponse, error)
	AdminAction(ctx context.Context, orderRef string, input AdminActionRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderRef string) (*OrderResponse, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderListResponse, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	catalog  CatalogStore
	coupons  couponRedeemer
	shipping shippingRates
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, catalog CatalogStore, couponSvc couponRedeemer, shippingSvc shippingRates) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon redeemer required")
	}
	if shippingSvc == nil {
		return nil, fmt.Errorf("shipping rates required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		catalog:  catalog,
		coupons:  couponSvc,
		shipping: shippingSvc,
	}, nil
}

// CreateOrder validates the cart and writes the order snapshot. Stock is only
// checked here, never decremented; decrements happen when an admin accepts.
// The coupon usage receipt is written in the same transaction as the order so
// a failed insert never burns a one-time code.
func (s *service) CreateOrder(ctx context.Context, userID *uuid.UUID, input CreateOrderRequest) (*OrderResponse, error) {
	area, err := enums.ParseDeliveryArea(input.DeliveryArea)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if method == enums.PaymentMethodCOD && !area.IsDomestic() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash on delivery is only available for domestic delivery")
	}
	if method == enums.PaymentMethodBkash {
		if strings.TrimSpace(input.BkashNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bkash_number is required for bkash payments")
		}
		if strings.TrimSpace(input.BkashTransactionID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bkash_transaction_id is required for bkash payments")
		}
	}
	if area.IsDomestic() {
		if strings.TrimSpace(input.District) == "" || strings.TrimSpace(input.Thana) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "district and thana are required for domestic delivery")
		}
	}

	shippingCharge, err := s.shipping.AmountFor(ctx, area)
	if err != nil {
		return nil, err
	}

	ref := newOrderRef()
	status := enums.OrderStatusPending
	if method == enums.PaymentMethodBkash {
		status = enums.OrderStatusPendingPayment
	}

	var created *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var (
			lineErrs    error
			items       []models.OrderItem
			redeemItems []coupons.RedeemItem
			subtotal    = decimal.Zero
		)

		for i, line := range input.Items {
			product, err := s.catalog.FindProduct(ctx, tx, line.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					lineErrs = multierr.Append(lineErrs, fmt.Errorf("item %d: product not found", i))
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
			}

			if err := validateLine(product, line, i); err != nil {
				lineErrs = multierr.Append(lineErrs, err)
				continue
			}

			unitPrice, ok := priceFor(product, DefaultCurrency)
			if !ok {
				lineErrs = multierr.Append(lineErrs, fmt.Errorf("item %d: no %s price configured", i, DefaultCurrency))
				continue
			}

			var size *string
			if trimmed := strings.TrimSpace(line.Size); trimmed != "" {
				size = &trimmed
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				UnitPrice: unitPrice,
				Quantity:  line.Quantity,
				Size:      size,
			})
			redeemItems = append(redeemItems, coupons.RedeemItem{
				ProductID: product.ID,
				UnitPrice: unitPrice,
				Quantity:  line.Quantity,
			})
			subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if lineErrs != nil {
			return itemValidationError(lineErrs)
		}

		discount := decimal.Zero
		var couponCode *string
		if code := strings.TrimSpace(input.CouponCode); code != "" {
			redemption, err := s.coupons.Redeem(ctx, tx, coupons.RedeemInput{
				Code:     code,
				Email:    input.CustomerEmail,
				Phone:    input.CustomerPhone,
				OrderRef: ref,
				UserID:   userID,
				Items:    redeemItems,
				Subtotal: subtotal,
			})
			if err != nil {
				return err
			}
			discount = redemption.Discount
			couponCode = &redemption.Code
		}
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}

		order := &models.Order{
			OrderID:        ref,
			UserID:         userID,
			Status:         status,
			PaymentMethod:  method,
			Total:          subtotal.Sub(discount).Add(shippingCharge).Round(2),
			Discount:       discount,
			ShippingCharge: shippingCharge,
			CouponCode:     couponCode,
			CustomerName:   input.CustomerName,
			CustomerPhone:  input.CustomerPhone,
			CustomerEmail:  input.CustomerEmail,
			Address:        input.Address,
			DeliveryArea:   area,
			District:       optional(input.District),
			Thana:          optional(input.Thana),
			BkashNumber:    optional(input.BkashNumber),
			Items:          items,
		}
		if method == enums.PaymentMethodBkash {
			order.BkashTransactionID = optional(input.BkashTransactionID)
		}

		saved, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		created = saved
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return toOrderResponse(created), nil
}

// AdminAction applies an accept or reject decision. Accepting re-validates
// every line against live stock and applies all decrements in one transaction:
// either every item is decremented and the order flips to accepted, or nothing
// changes at all.
func (s *service) AdminAction(ctx context.Context, orderRef string, input AdminActionRequest) (*OrderResponse, error) {
	var target enums.OrderStatus
	switch input.Action {
	case ActionAccept:
		target = enums.OrderStatusAccepted
	case ActionReject:
		target = enums.OrderStatusRejected
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or reject")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByRef(ctx, orderRef)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
		}

		if order.Status == target {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order already %s", target))
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in state %s cannot be %s", order.Status, target))
		}

		if target == enums.OrderStatusAccepted {
			if err := s.applyStockDecrements(ctx, tx, order); err != nil {
				return err
			}
		}

		// The flip is conditional on the status read above. A concurrent
		// decision commits first, the guard misses, and the transaction
		// rolls back with every decrement in it.
		flipped, err := repo.UpdateStatus(ctx, order.ID, order.Status, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		if !flipped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order was decided by another request")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order action")
	}

	return s.GetOrder(ctx, orderRef)
}

// applyStockDecrements re-validates every line and then decrements stock.
// Validation failures are collected across all lines so the admin sees the
// whole picture, not just the first broken item.
func (s *service) applyStockDecrements(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	var lineErrs error

	for i, item := range order.Items {
		product, err := s.catalog.FindProduct(ctx, tx, item.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				lineErrs = multierr.Append(lineErrs, fmt.Errorf("item %d (%s): product no longer exists", i, item.Title))
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		line := OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
		if item.Size != nil {
			line.Size = *item.Size
		}
		if err := validateLine(product, line, i); err != nil {
			lineErrs = multierr.Append(lineErrs, err)
		}
	}
	if lineErrs != nil {
		return itemValidationError(lineErrs)
	}

	for _, item := range order.Items {
		if item.Size != nil {
			ok, err := s.catalog.DecrementSize(ctx, tx, item.ProductID, *item.Size, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement size stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("insufficient stock for %s size %s", item.Title, *item.Size))
			}
		}

		ok, err := s.catalog.DecrementQuantity(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("insufficient stock for %s", item.Title))
		}
	}
	return nil
}

// GetOrder loads one order by its public reference.
func (s *service) GetOrder(ctx context.Context, orderRef string) (*OrderResponse, error) {
	order, err := s.repo.FindByRef(ctx, orderRef)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return toOrderResponse(order), nil
}

// ListOrders returns one admin page of orders.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderListResponse, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	out := &OrderListResponse{
		Orders:     make([]OrderResponse, 0, len(list.Orders)),
		NextCursor: list.NextCursor,
	}
	for i := range list.Orders {
		out.Orders = append(out.Orders, *toOrderResponse(&list.Orders[i]))
	}
	return out, nil
}

// validateLine checks one cart line against the product's live state. The
// index keys the aggregated error list back to the submitted cart.
func validateLine(product *models.Product, line OrderItemInput, index int) error {
	if !product.IsActive {
		return fmt.Errorf("item %d: %s is not available", index, product.Title)
	}
	if product.ProductType == enums.ProductTypeAffiliate {
		return fmt.Errorf("item %d: %s cannot be ordered directly", index, product.Title)
	}
	size := strings.TrimSpace(line.Size)
	if product.SizeRequirement == enums.SizeRequirementMandatory && size == "" {
		return fmt.Errorf("item %d: size is required for %s", index, product.Title)
	}

	// Only in-stock products are orderable. Pre-order listings are browsable
	// but cannot be checked out until they flip to in_stock.
	switch product.Availability {
	case enums.AvailabilityOutOfStock:
		return fmt.Errorf("item %d: %s is out of stock", index, product.Title)
	case enums.AvailabilityPreOrder:
		return fmt.Errorf("item %d: %s is not yet released for ordering", index, product.Title)
	}

	if size != "" {
		variant, ok := sizeFor(product, size)
		if !ok {
			return fmt.Errorf("item %d: size %s not available for %s", index, size, product.Title)
		}
		if variant.Quantity < line.Quantity {
			return fmt.Errorf("item %d: only %d of %s size %s in stock", index, variant.Quantity, product.Title, size)
		}
		return nil
	}

	if product.Quantity < line.Quantity {
		return fmt.Errorf("item %d: only %d of %s in stock", index, product.Quantity, product.Title)
	}
	return nil
}

func itemValidationError(lineErrs error) error {
	errs := multierr.Errors(lineErrs)
	details := make([]string, 0, len(errs))
	for _, e := range errs {
		details = append(details, e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "order items failed validation").
		WithDetails(map[string]any{"items": details})
}

func priceFor(product *models.Product, currency string) (decimal.Decimal, bool) {
	for _, price := range product.Prices {
		if strings.EqualFold(price.Currency, currency) {
			return price.Amount, true
		}
	}
	return decimal.Zero, false
}

func sizeFor(product *models.Product, name string) (*models.ProductSize, bool) {
	for i := range product.Sizes {
		if strings.EqualFold(product.Sizes[i].Name, name) {
			return &product.Sizes[i], true
		}
	}
	return nil, false
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// newOrderRef issues the public order reference customers quote in support
// requests. Uniqueness is enforced by the order_id index; the uuid suffix
// makes collisions practically impossible.
func newOrderRef() string {
	id := uuid.New()
	return fmt.Sprintf("SO-%s", strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12]))
}
