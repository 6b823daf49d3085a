package usecase

import (
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/google/uuid"
)

// ProductUseCase реализует публичный каталог и админские операции над товарами.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	imageRepo   ImageRepository
	minioCfg    *cfg.MinIOCfg
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imageRepo ImageRepository,
	minioCfg *cfg.MinIOCfg,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		imageRepo:   imageRepo,
		minioCfg:    minioCfg,
		logger:      logger,
	}
}

// ListProducts возвращает активные товары каталога, новые первыми.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.ListActive(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct возвращает товар независимо от флага активности.
// Чтение идёт через кэш; промах добирается из базы и кэшируется в фоне.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProducts(ctx, []int64{id})
	if err == nil {
		if product, ok := cached[id]; ok {
			return &product, nil
		}
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProducts(bgCtx, []domain.Product{*product}); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// CreateProduct создаёт товар каталога.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, req.Description, req.Price, req.Stock)
	product.ImageURL = req.ImageURL
	product.IsActive = req.IsActive

	created, err := p.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// UpdateProduct применяет только заполненные поля upd, остальные не меняются.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, upd *ProductUpdate) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	product, err := p.productRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(id)

	return product, nil
}

// ToggleProductActive переключает флаг активности товара.
func (p *ProductUseCase) ToggleProductActive(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.ToggleProductActive"

	product, err := p.productRepo.ToggleActive(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(id)

	return product, nil
}

// UploadProductImage сохраняет изображение в MinIO и прописывает товару его URL.
// Если запись URL в базу не удалась, загруженный объект удаляется.
func (p *ProductUseCase) UploadProductImage(ctx context.Context, id int64, image *ProductImage) (*domain.Product, error) {
	const op = "ProductUseCase.UploadProductImage"

	if _, err := p.productRepo.GetByID(ctx, id); err != nil {
		return nil, e.Wrap(op, err)
	}

	objectKey := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), extensionFor(image.MimeType))

	key, err := p.imageRepo.Upload(ctx, domain.NewImage(objectKey, image.Data, image.MimeType))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	url := fmt.Sprintf("%s/%s/%s", p.minioCfg.PublicBaseURL, p.minioCfg.BucketName, key)

	product, err := p.productRepo.SetImageURL(ctx, id, url)
	if err != nil {
		p.logger.Warnf("Cleaning up orphaned image after DB failure. key: %s, error: %v", key, e.Wrap(op, err))
		if delErr := p.imageRepo.Delete(context.Background(), key); delErr != nil {
			p.logger.Warnf("Failed to delete orphaned image %s: %v", key, delErr)
		}
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(id)

	return product, nil
}

// invalidateCache удаляет товар из кэша после мутации, ошибки только логируются.
func (p *ProductUseCase) invalidateCache(id int64) {
	bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := p.cacheRepo.DeleteProducts(bgCtx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}

// validateProduct проверяет корректность данных нового товара.
func (p *ProductUseCase) validateProduct(req *CreateProductReq) error {
	if req.Name == "" {
		return e.ErrInvalidInput
	}

	if req.Price < 0 || req.Stock < 0 {
		return e.ErrInvalidInput
	}

	return nil
}

// extensionFor подбирает расширение файла по MIME-типу; неизвестный тип
// оставляется без расширения.
func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
