package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductUC(productRepo *mockProductRepo, cacheRepo *mockCacheRepo, imageRepo *mockImageRepo) *ProductUseCase {
	minioCfg := &cfg.MinIOCfg{
		BucketName:    "product-images",
		PublicBaseURL: "http://minio:9000",
	}
	return NewProductUC(productRepo, cacheRepo, imageRepo, minioCfg, nopLogger{})
}

func TestListProducts_OnlyActive(t *testing.T) {
	active := &domain.Product{ID: 1, Name: "mug", IsActive: true}
	hidden := &domain.Product{ID: 2, Name: "old mug", IsActive: false}
	uc := newTestProductUC(newMockProductRepo(active, hidden), newMockCacheRepo(), &mockImageRepo{})

	products, err := uc.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
}

func TestGetProduct_CacheHitSkipsRepo(t *testing.T) {
	cacheRepo := newMockCacheRepo()
	require.NoError(t, cacheRepo.SetProducts(context.Background(), []domain.Product{
		{ID: 1, Name: "cached mug", Price: 999},
	}))

	// Репозиторий пуст: попадание должно прийти из кэша.
	uc := newTestProductUC(newMockProductRepo(), cacheRepo, &mockImageRepo{})

	product, err := uc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "cached mug", product.Name)
}

func TestGetProduct_CacheMissFallsBack(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", Price: 999, IsActive: true}
	uc := newTestProductUC(newMockProductRepo(product), newMockCacheRepo(), &mockImageRepo{})

	got, err := uc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "mug", got.Name)
}

func TestGetProduct_CacheErrorIsNotFatal(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", IsActive: true}
	cacheRepo := newMockCacheRepo()
	cacheRepo.getErr = e.ErrInternalServerError

	uc := newTestProductUC(newMockProductRepo(product), cacheRepo, &mockImageRepo{})

	got, err := uc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "mug", got.Name)
}

func TestCreateProduct_Validation(t *testing.T) {
	uc := newTestProductUC(newMockProductRepo(), newMockCacheRepo(), &mockImageRepo{})

	_, err := uc.CreateProduct(context.Background(), &CreateProductReq{Name: "", Price: 100})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = uc.CreateProduct(context.Background(), &CreateProductReq{Name: "mug", Price: -1})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = uc.CreateProduct(context.Background(), &CreateProductReq{Name: "mug", Price: 100, Stock: -5})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestCreateProduct_Success(t *testing.T) {
	productRepo := newMockProductRepo()
	uc := newTestProductUC(productRepo, newMockCacheRepo(), &mockImageRepo{})

	product, err := uc.CreateProduct(context.Background(), &CreateProductReq{
		Name:        "mug",
		Description: "ceramic",
		Price:       999,
		Stock:       5,
		IsActive:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(999), product.Price)
	assert.Equal(t, int32(5), product.Stock)
	assert.NotNil(t, productRepo.created)
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", Price: 999, Stock: 5, IsActive: true}
	productRepo := newMockProductRepo(product)
	uc := newTestProductUC(productRepo, newMockCacheRepo(), &mockImageRepo{})

	newPrice := int64(1299)
	updated, err := uc.UpdateProduct(context.Background(), 1, &ProductUpdate{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, int64(1299), updated.Price)
	assert.Equal(t, "mug", updated.Name, "untouched fields must survive")
	assert.Nil(t, productRepo.updated.Name)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", Price: 999, IsActive: true}
	cacheRepo := newMockCacheRepo()
	require.NoError(t, cacheRepo.SetProducts(context.Background(), []domain.Product{*product}))

	uc := newTestProductUC(newMockProductRepo(product), cacheRepo, &mockImageRepo{})

	newPrice := int64(1299)
	_, err := uc.UpdateProduct(context.Background(), 1, &ProductUpdate{Price: &newPrice})

	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deletedIDs(), int64(1))
}

func TestToggleProductActive(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", IsActive: true}
	uc := newTestProductUC(newMockProductRepo(product), newMockCacheRepo(), &mockImageRepo{})

	toggled, err := uc.ToggleProductActive(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = uc.ToggleProductActive(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestUploadProductImage_SetsURL(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", IsActive: true}
	productRepo := newMockProductRepo(product)
	imageRepo := &mockImageRepo{}

	uc := newTestProductUC(productRepo, newMockCacheRepo(), imageRepo)

	updated, err := uc.UploadProductImage(context.Background(), 1,
		NewProductImage([]byte("fake-bytes"), "image/png", 10, "mug.png"))

	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	assert.True(t, strings.HasPrefix(*updated.ImageURL, "http://minio:9000/product-images/products/1/"))
	require.NotNil(t, imageRepo.uploaded)
	assert.True(t, strings.HasPrefix(imageRepo.uploaded.ObjectKey, "products/1/"))
}

func TestUploadProductImage_CleansUpOrphanOnDBFailure(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "mug", IsActive: true}
	productRepo := newMockProductRepo(product)
	productRepo.imageURLErr = e.ErrInternalServerError
	imageRepo := &mockImageRepo{}

	uc := newTestProductUC(productRepo, newMockCacheRepo(), imageRepo)

	_, err := uc.UploadProductImage(context.Background(), 1,
		NewProductImage([]byte("fake-bytes"), "image/png", 10, "mug.png"))

	require.Error(t, err)
	assert.Equal(t, imageRepo.uploaded.ObjectKey, imageRepo.deletedKey, "orphaned object must be removed")
}

func TestUploadProductImage_UnknownProduct(t *testing.T) {
	imageRepo := &mockImageRepo{}
	uc := newTestProductUC(newMockProductRepo(), newMockCacheRepo(), imageRepo)

	_, err := uc.UploadProductImage(context.Background(), 42,
		NewProductImage([]byte("fake-bytes"), "image/png", 10, "mug.png"))

	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.Nil(t, imageRepo.uploaded, "nothing may be uploaded for a missing product")
}
