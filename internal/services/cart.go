package services

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webshop/internal/models"
)

// CartStore is the persistence seam for the cart aggregate. Mutating
// operations must be atomic single-document updates; the service never
// writes a whole item list back over a previously read one.
type CartStore interface {
	GetCartByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	CreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	IncItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, delta int) (bool, error)
	PushItem(ctx context.Context, userID primitive.ObjectID, item models.CartItem) (bool, error)
	SetItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (bool, error)
	SetItemSelected(ctx context.Context, userID, itemID primitive.ObjectID, selected bool) (bool, error)
	PullItem(ctx context.Context, userID, itemID primitive.ObjectID) (bool, error)
	ClearItems(ctx context.Context, userID primitive.ObjectID) error
	SetSelection(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID, selected bool) error
}

// ProductGetter resolves product references for display and validation.
type ProductGetter interface {
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error)
}

// CartLine is a cart item with its product record joined in.
type CartLine struct {
	ID        primitive.ObjectID `json:"_id"`
	ProductID primitive.ObjectID `json:"productId"`
	Product   *models.Product    `json:"product"`
	Quantity  int                `json:"quantity"`
	Selected  bool               `json:"selected"`
}

type CartView struct {
	ID     primitive.ObjectID `json:"_id"`
	UserID primitive.ObjectID `json:"userId"`
	Items  []CartLine         `json:"items"`
}

type CheckoutSelection struct {
	Items       []CartLine `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

type CartService struct {
	store    CartStore
	products ProductGetter
	errorLog *log.Logger
}

func NewCartService(store CartStore, products ProductGetter, errorLog *log.Logger) *CartService {
	return &CartService{store: store, products: products, errorLog: errorLog}
}

// Get returns the user's cart, lazily creating an empty one.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) Result {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return s.internal("get cart", err)
		}
		cart, err = s.store.CreateCart(ctx, userID)
		if err != nil {
			return s.internal("create cart", err)
		}
	}

	view, err := s.populate(ctx, cart)
	if err != nil {
		return s.internal("populate cart", err)
	}
	return ok("cart fetched", view)
}

// AddItem merges quantity into an existing line for the product or
// appends a new selected line. The increment happens in the store, so
// concurrent additions of the same product are never lost.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) Result {
	if quantity < 1 {
		return fail(StatusInvalidInput, "quantity must be at least 1")
	}

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "product does not exist")
		}
		return s.internal("look up product", err)
	}

	// A push is refused when a line for the product appeared between the
	// increment miss and the push, so fall back to merging until one of
	// the two lands.
	merged, err := s.store.IncItemQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return s.internal("merge cart item", err)
	}
	for !merged {
		item := models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: productID,
			Quantity:  quantity,
			Selected:  true,
		}
		pushed, err := s.store.PushItem(ctx, userID, item)
		if err != nil {
			return s.internal("add cart item", err)
		}
		if pushed {
			break
		}
		merged, err = s.store.IncItemQuantity(ctx, userID, productID, quantity)
		if err != nil {
			return s.internal("merge cart item", err)
		}
	}

	view, err := s.freshView(ctx, userID)
	if err != nil {
		return s.internal("populate cart", err)
	}
	return ok("item added to cart", view)
}

// UpdateItem replaces the line's quantity and/or selected flag. A
// quantity of zero or less removes the line. With neither field set the
// cart is returned unchanged.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID primitive.ObjectID, quantity *int, selected *bool) Result {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "cart does not exist")
		}
		return s.internal("get cart", err)
	}
	if !cartHasItem(cart, itemID) {
		return fail(StatusNotFound, "item is not in the cart")
	}

	if quantity != nil {
		if *quantity <= 0 {
			if _, err := s.store.PullItem(ctx, userID, itemID); err != nil {
				return s.internal("remove cart item", err)
			}
		} else {
			if _, err := s.store.SetItemQuantity(ctx, userID, itemID, *quantity); err != nil {
				return s.internal("update cart item", err)
			}
		}
	}
	if selected != nil && (quantity == nil || *quantity > 0) {
		if _, err := s.store.SetItemSelected(ctx, userID, itemID, *selected); err != nil {
			return s.internal("update cart item", err)
		}
	}

	view, err := s.freshView(ctx, userID)
	if err != nil {
		return s.internal("populate cart", err)
	}
	return ok("cart updated", view)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) Result {
	if _, err := s.store.GetCartByUserID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "cart does not exist")
		}
		return s.internal("get cart", err)
	}

	removed, err := s.store.PullItem(ctx, userID, itemID)
	if err != nil {
		return s.internal("remove cart item", err)
	}
	if !removed {
		return fail(StatusNotFound, "item is not in the cart")
	}

	view, err := s.freshView(ctx, userID)
	if err != nil {
		return s.internal("populate cart", err)
	}
	return ok("item removed from cart", view)
}

// Clear empties the item list but keeps the cart. Clearing an already
// empty or absent cart succeeds.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) Result {
	if err := s.store.ClearItems(ctx, userID); err != nil {
		return s.internal("clear cart", err)
	}

	view, err := s.freshView(ctx, userID)
	if err != nil {
		return s.internal("populate cart", err)
	}
	return ok("cart cleared", view)
}

// SetSelection marks the given lines (un)selected for checkout. Ids that
// match no line are silently ignored.
func (s *CartService) SetSelection(ctx context.Context, userID primitive.ObjectID, itemIDs []primitive.ObjectID, selected bool) Result {
	if _, err := s.store.GetCartByUserID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "cart does not exist")
		}
		return s.internal("get cart", err)
	}

	if err := s.store.SetSelection(ctx, userID, itemIDs, selected); err != nil {
		return s.internal("update selection", err)
	}

	view, err := s.freshView(ctx, userID)
	if err != nil {
		return s.internal("populate cart", err)
	}
	msg := "items unselected"
	if selected {
		msg = "items selected for checkout"
	}
	return ok(msg, view)
}

// CheckoutSelection returns the selected lines and their total. A missing
// cart yields an empty selection, not an error. Lines whose product has
// disappeared contribute nothing to the total.
func (s *CartService) CheckoutSelection(ctx context.Context, userID primitive.ObjectID) Result {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ok("checkout selection fetched", CheckoutSelection{Items: []CartLine{}})
		}
		return s.internal("get cart", err)
	}

	view, err := s.populate(ctx, cart)
	if err != nil {
		return s.internal("populate cart", err)
	}

	selection := CheckoutSelection{Items: []CartLine{}}
	for _, line := range view.Items {
		if !line.Selected {
			continue
		}
		selection.Items = append(selection.Items, line)
		if line.Product != nil {
			selection.TotalAmount += line.Product.Price * float64(line.Quantity)
		}
	}
	return ok("checkout selection fetched", selection)
}

func (s *CartService) freshView(ctx context.Context, userID primitive.ObjectID) (CartView, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	return s.populate(ctx, cart)
}

func (s *CartService) populate(ctx context.Context, cart *models.Cart) (CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return CartView{}, err
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := CartView{ID: cart.ID, UserID: cart.UserID, Items: []CartLine{}}
	for _, item := range cart.Items {
		view.Items = append(view.Items, CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   byID[item.ProductID],
			Quantity:  item.Quantity,
			Selected:  item.Selected,
		})
	}
	return view, nil
}

func cartHasItem(cart *models.Cart, itemID primitive.ObjectID) bool {
	for _, item := range cart.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

func (s *CartService) internal(op string, err error) Result {
	s.errorLog.Printf("cart service: %s: %v", op, err)
	return fail(StatusInternal, "something went wrong, please try again")
}
