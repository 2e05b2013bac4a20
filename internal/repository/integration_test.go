package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elegantjewellery/jewellery-api/internal/model"
)

func seedUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email: email, Password: "hashed",
		FirstName: "Test", LastName: "User", Role: model.RoleUser,
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	require.NoError(t, NewCategoryRepository(testPool).Create(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, categoryID uuid.UUID, name string, price float64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name: name, Description: "seeded",
		Price: decimal.NewFromFloat(price), Stock: stock, CategoryID: categoryID,
	}
	require.NoError(t, NewProductRepository(testPool).Create(context.Background(), product))
	return product
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "test@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	// Lookup is case-insensitive.
	found, err = repo.GetByEmail(ctx, "TEST@Example.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryRepo_CRUD(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "categories")

	repo := NewCategoryRepository(testPool)
	ctx := context.Background()

	category := seedCategory(t, "Rings")
	assert.NotEqual(t, uuid.Nil, category.ID)

	category.Name = "Necklaces"
	require.NoError(t, repo.Update(ctx, category))

	found, err := repo.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Necklaces", found.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, category.ID))
	found, err = repo.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCartRepo_AddAndGetItems(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	cartRepo := NewCartRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "cart@example.com")
	category := seedCategory(t, "Bracelets")
	product := seedProduct(t, category.ID, "Gold Bangle", 150, 10)

	cart, err := cartRepo.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)

	// A second call returns the same cart.
	again, err := cartRepo.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	require.NoError(t, cartRepo.AddItem(ctx, &model.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 2, Price: product.Price,
	}))

	// Adding the same product again accumulates quantity instead of
	// inserting a second row.
	require.NoError(t, cartRepo.AddItem(ctx, &model.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 1, Price: product.Price,
	}))

	cartWithItems, err := cartRepo.GetCartWithItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, cartWithItems.Items, 1)
	assert.Equal(t, 3, cartWithItems.Items[0].Quantity)
	assert.True(t, product.Price.Equal(cartWithItems.Items[0].Price))

	require.NoError(t, cartRepo.ClearCart(ctx, cart.ID))
	cartWithItems, err = cartRepo.GetCartWithItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, cartWithItems.Items)
}

func TestCartRepo_UpdateDeletedItem(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	cartRepo := NewCartRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "racer@example.com")
	category := seedCategory(t, "Chains")
	product := seedProduct(t, category.ID, "Rope Chain", 80, 5)

	cart, err := cartRepo.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	item := &model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1, Price: product.Price}
	require.NoError(t, cartRepo.AddItem(ctx, item))
	require.NoError(t, cartRepo.DeleteItem(ctx, item.ID))

	// Update and delete agree on how a vanished row is reported.
	item.Quantity = 2
	assert.ErrorIs(t, cartRepo.UpdateItem(ctx, item), pgx.ErrNoRows)
	assert.ErrorIs(t, cartRepo.DeleteItem(ctx, item.ID), pgx.ErrNoRows)
}

func TestOrderRepo_PlaceOrderAndGet(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	cartRepo := NewCartRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	productRepo := NewProductRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "order@example.com")
	category := seedCategory(t, "Earrings")
	product := seedProduct(t, category.ID, "Pearl Studs", 25, 10)

	cart, err := cartRepo.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, cartRepo.AddItem(ctx, &model.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 2, Price: product.Price,
	}))

	order := &model.Order{
		UserID: user.ID, Status: model.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(50),
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 2, Price: product.Price},
		},
	}
	require.NoError(t, orderRepo.PlaceOrder(ctx, order, cart.ID))
	assert.NotEqual(t, uuid.Nil, order.ID)

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.OrderStatusPending, found.Status)
	assert.Equal(t, "Test", found.UserName)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Pearl Studs", found.Items[0].ProductName)

	// Stock is decremented and the cart is emptied in the same transaction.
	updated, err := productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)

	cartAfter, err := cartRepo.GetCartWithItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, cartAfter.Items)
}

func TestOrderRepo_PlaceOrderInsufficientStock(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	cartRepo := NewCartRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	productRepo := NewProductRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "greedy@example.com")
	category := seedCategory(t, "Pendants")
	product := seedProduct(t, category.ID, "Diamond Pendant", 500, 2)

	cart, err := cartRepo.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, cartRepo.AddItem(ctx, &model.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 5, Price: product.Price,
	}))

	order := &model.Order{
		UserID: user.ID, Status: model.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(2500),
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 5, Price: product.Price},
		},
	}
	err = orderRepo.PlaceOrder(ctx, order, cart.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing persisted: no order, stock untouched, cart intact.
	orders, err := orderRepo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	after, err := productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Stock)

	cartAfter, err := cartRepo.GetCartWithItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, cartAfter.Items, 1)
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	cartRepo := NewCartRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "status@example.com")
	category := seedCategory(t, "Watches")
	product := seedProduct(t, category.ID, "Silver Watch", 300, 5)

	cart, err := cartRepo.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)

	order := &model.Order{
		UserID: user.ID, Status: model.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(300),
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}
	require.NoError(t, orderRepo.PlaceOrder(ctx, order, cart.ID))

	require.NoError(t, orderRepo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped))

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, found.Status)
}
