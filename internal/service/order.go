package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/elegantjewellery/jewellery-api/internal/model"
	"github.com/elegantjewellery/jewellery-api/internal/repository"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrStockDepleted = errors.New("insufficient stock")
)

// InsufficientStockError names the offending product and the remaining count.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product: %s", e.ProductName)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrStockDepleted }

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	redisClient *redis.Client
	amqpCh      *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, redisClient *redis.Client, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, cartRepo: cartRepo, productRepo: productRepo, redisClient: redisClient, amqpCh: amqpCh}
}

// Checkout turns the user's cart into a Pending order. The header, items,
// per-item stock decrements and cart clear are written in one transaction;
// nothing persists if any step fails.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	cartWithItems, err := s.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if cartWithItems == nil || len(cartWithItems.Items) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	var items []model.OrderItem
	for _, ci := range cartWithItems.Items {
		product, err := s.productRepo.GetByID(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, ci.ProductID)
		}
		if product.Stock < ci.Quantity {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}

		// Unit price is captured from the product as it stands at checkout.
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))))
		items = append(items, model.OrderItem{
			ProductID: ci.ProductID, Quantity: ci.Quantity, Price: product.Price,
		})
	}

	order := &model.Order{
		UserID:      userID,
		Status:      model.OrderStatusPending,
		TotalAmount: total,
		Items:       items,
	}
	if err := s.orderRepo.PlaceOrder(ctx, order, cart.ID); err != nil {
		// A concurrent checkout can win the race between the stock check
		// above and the guarded decrement inside the transaction.
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrStockDepleted
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	// The transaction changed each product's stock; drop the stale copies.
	for _, item := range order.Items {
		invalidateProductCache(ctx, s.redisClient, item.ProductID)
	}

	s.publish(ctx, model.NotificationMessage{
		EventID: uuid.New(),
		Type:    model.NotificationOrderCreated,
		UserID:  userID,
		OrderID: order.ID,
		Status:  order.Status,
	})

	// Re-read so the response carries product and user names.
	placed, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if placed == nil {
		return nil, ErrOrderNotFound
	}
	return placed, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	// An order owned by someone else is reported identically to a missing one.
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus assigns any status from the valid set; there is no
// transition guard (see model.OrderStatus.CanTransitionTo).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	target := model.OrderStatus(status)
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = target

	s.publish(ctx, model.NotificationMessage{
		EventID: uuid.New(),
		Type:    model.NotificationOrderStatusChanged,
		UserID:  order.UserID,
		OrderID: order.ID,
		Status:  target,
	})

	return order, nil
}

func (s *OrderService) publish(ctx context.Context, msg model.NotificationMessage) {
	if s.amqpCh == nil {
		return
	}
	body, _ := json.Marshal(msg)
	_ = s.amqpCh.PublishWithContext(ctx, "", "notifications", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}
