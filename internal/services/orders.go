package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webshop/internal/models"
)

type OrderStore interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
	PurchaseStatsByProduct(ctx context.Context, productID primitive.ObjectID) (models.PurchaseStats, error)
}

// StockStore validates products and moves stock at checkout. DecrementStock
// must check and take stock in one atomic step.
type StockStore interface {
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error
}

type OrderService struct {
	store    OrderStore
	stock    StockStore
	errorLog *log.Logger
}

func NewOrderService(store OrderStore, stock StockStore, errorLog *log.Logger) *OrderService {
	return &OrderService{store: store, stock: stock, errorLog: errorLog}
}

// CreateOrder turns a caller-supplied item list into a persisted order
// with status "completed". Stock is validated and decremented per item
// before the order is written; on a shortfall the order fails with the
// offending product named and any stock already taken is put back.
//
// The cart is deliberately untouched: clearing purchased lines is the
// caller's decision.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem) Result {
	if len(items) == 0 {
		return fail(StatusInvalidInput, "order items are missing")
	}
	for i := range items {
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
		if items[i].Quantity < 0 || items[i].ProductID.IsZero() {
			return fail(StatusInvalidInput, "order items are malformed")
		}
	}

	// Existence and stock pre-check so the common failure modes report
	// before any stock moves.
	for _, item := range items {
		p, err := s.stock.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fail(StatusNotFound, fmt.Sprintf("product %s does not exist", item.ProductID.Hex()))
			}
			return s.internal("look up product", err)
		}
		if p.Stock < item.Quantity {
			return fail(StatusInsufficientStock,
				fmt.Sprintf("not enough stock for %q (remaining: %d)", p.Name, p.Stock))
		}
	}

	// Take the stock. The conditional decrement can still lose the race
	// against a concurrent checkout, so roll back the lines already taken
	// before reporting the shortfall.
	taken := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		okDec, err := s.stock.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil && !okDec {
			err = errShortfall
		}
		if err != nil {
			s.restoreStock(ctx, taken)
			if errors.Is(err, errShortfall) {
				return fail(StatusInsufficientStock,
					fmt.Sprintf("not enough stock for product %s", item.ProductID.Hex()))
			}
			return s.internal("decrement stock", err)
		}
		taken = append(taken, item)
	}

	order := &models.Order{
		UserID: userID,
		Items:  items,
		Status: "completed",
	}
	if err := s.store.InsertOrder(ctx, order); err != nil {
		s.restoreStock(ctx, taken)
		return s.internal("insert order", err)
	}
	return ok("order created", order)
}

var errShortfall = errors.New("services: stock shortfall")

func (s *OrderService) restoreStock(ctx context.Context, taken []models.OrderItem) {
	for _, item := range taken {
		if err := s.stock.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.errorLog.Printf("order service: restore stock for %s: %v", item.ProductID.Hex(), err)
		}
	}
}

func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID) Result {
	orders, err := s.store.OrdersByUser(ctx, userID)
	if err != nil {
		return s.internal("list orders", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return ok("orders fetched", orders)
}

// PurchaseStats reports distinct buyers and total quantity sold. Missing
// history yields zeros, never an error.
func (s *OrderService) PurchaseStats(ctx context.Context, productID primitive.ObjectID) Result {
	stats, err := s.store.PurchaseStatsByProduct(ctx, productID)
	if err != nil {
		return s.internal("aggregate purchase stats", err)
	}
	return ok("purchase stats fetched", stats)
}

func (s *OrderService) internal(op string, err error) Result {
	s.errorLog.Printf("order service: %s: %v", op, err)
	return fail(StatusInternal, "something went wrong, please try again")
}
