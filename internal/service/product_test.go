package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
	"github.com/elegantjewellery/jewellery-api/internal/model"
)

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) List(_ context.Context, limit, offset int, search, sort, order string) ([]model.Product, int, error) {
	var all []model.Product
	for _, p := range m.products {
		all = append(all, *p)
	}
	return all, len(all), nil
}

func (m *mockProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	if p, ok := m.products[id]; ok {
		p.Stock += delta
	}
	return nil
}

func seedCategory(repo *mockCategoryRepo) uuid.UUID {
	c := &model.Category{Name: "Rings"}
	_ = repo.Create(context.Background(), c)
	return c.ID
}

func TestProductService_Create(t *testing.T) {
	categoryRepo := newMockCategoryRepo()
	categoryID := seedCategory(categoryRepo)
	svc := NewProductService(newMockProductRepo(), categoryRepo, nil)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Gold Ring", Description: "18k gold", Price: decimal.NewFromFloat(299.99),
		Stock: 10, CategoryID: categoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", resp.Name)
	assert.Equal(t, 10, resp.Stock)
	assert.Equal(t, categoryID, resp.CategoryID)
}

func TestProductService_Create_CategoryNotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), newMockCategoryRepo(), nil)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Gold Ring", Description: "18k gold", Price: decimal.NewFromFloat(299.99),
		Stock: 10, CategoryID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), newMockCategoryRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Update_Price(t *testing.T) {
	repo := newMockProductRepo()
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Name: "Gold Ring", Price: decimal.NewFromInt(100)}
	svc := NewProductService(repo, newMockCategoryRepo(), nil)

	newPrice := decimal.NewFromInt(150)
	resp, err := svc.Update(context.Background(), id, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(newPrice))
	assert.True(t, repo.products[id].Price.Equal(newPrice))
}

func TestProductService_Delete(t *testing.T) {
	repo := newMockProductRepo()
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id}
	svc := NewProductService(repo, newMockCategoryRepo(), nil)

	err := svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, repo.products)
}

func TestProductService_AdjustStock(t *testing.T) {
	repo := newMockProductRepo()
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Name: "Gold Ring", Stock: 10}
	svc := NewProductService(repo, newMockCategoryRepo(), nil)

	resp, err := svc.AdjustStock(context.Background(), id, -3)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Stock)
	assert.Equal(t, 7, repo.products[id].Stock)
}

func TestProductService_AdjustStock_NoFloor(t *testing.T) {
	repo := newMockProductRepo()
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Stock: 2}
	svc := NewProductService(repo, newMockCategoryRepo(), nil)

	// This layer applies the delta as-is; only checkout guards the floor.
	resp, err := svc.AdjustStock(context.Background(), id, -5)
	require.NoError(t, err)
	assert.Equal(t, -3, resp.Stock)
}

func TestProductService_AdjustStock_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), newMockCategoryRepo(), nil)
	_, err := svc.AdjustStock(context.Background(), uuid.New(), 5)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func newCachedProductService(t *testing.T) (*ProductService, *mockProductRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := newMockProductRepo()
	return NewProductService(repo, newMockCategoryRepo(), client), repo, mr
}

func TestProductService_GetByID_ServesFromCache(t *testing.T) {
	svc, repo, mr := newCachedProductService(t)
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Name: "Gold Ring", Stock: 10}

	first, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Stock)
	assert.True(t, mr.Exists(productCachePrefix+id.String()))

	// Change the row behind the cache; the stale copy is served until
	// an invalidating write or TTL expiry.
	repo.products[id].Stock = 3
	second, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10, second.Stock)
}

func TestProductService_AdjustStock_InvalidatesCache(t *testing.T) {
	svc, repo, mr := newCachedProductService(t)
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Name: "Gold Ring", Stock: 10}

	_, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, mr.Exists(productCachePrefix+id.String()))

	_, err = svc.AdjustStock(context.Background(), id, -3)
	require.NoError(t, err)
	assert.False(t, mr.Exists(productCachePrefix+id.String()))

	reread, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, reread.Stock)
}

func TestProductService_Update_InvalidatesCache(t *testing.T) {
	svc, repo, mr := newCachedProductService(t)
	id := uuid.New()
	repo.products[id] = &model.Product{ID: id, Name: "Gold Ring", Price: decimal.NewFromInt(100)}

	_, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, mr.Exists(productCachePrefix+id.String()))

	newPrice := decimal.NewFromInt(150)
	_, err = svc.Update(context.Background(), id, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.False(t, mr.Exists(productCachePrefix+id.String()))
}
