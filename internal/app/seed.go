package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	config "github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// seedProduct — строка JSON-файла с начальными товарами.
type seedProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Stock       int32           `json:"stock"`
}

// seed создаёт администратора и, при наличии файла, начальные товары.
// Повторный запуск безопасен: существующий админ не трогается,
// товары заливаются только в пустой каталог.
func seed(ctx context.Context, cfg *config.SeedCfg, users usecase.UserRepository, products usecase.ProductRepository, logger logger.Logger) error {
	if err := seedAdmin(ctx, cfg, users, logger); err != nil {
		return err
	}

	if cfg.ProductsPath == "" {
		return nil
	}

	return seedProducts(ctx, cfg.ProductsPath, products, logger)
}

func seedAdmin(ctx context.Context, cfg *config.SeedCfg, users usecase.UserRepository, logger logger.Logger) error {
	_, err := users.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	admin := domain.NewUser(cfg.AdminEmail, string(hash))
	admin.IsAdmin = true

	if _, err := users.Create(ctx, admin); err != nil {
		// Параллельный запуск мог успеть создать админа первым.
		if errors.Is(err, e.ErrUserExists) {
			return nil
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	logger.Infof("admin user %s created", cfg.AdminEmail)
	return nil
}

func seedProducts(ctx context.Context, path string, products usecase.ProductRepository, logger logger.Logger) error {
	existing, err := products.ListActive(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if len(existing) > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	var rows []seedProduct
	if err := json.Unmarshal(data, &rows); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	for _, row := range rows {
		cents := row.Price.Mul(decimal.NewFromInt(100))
		if row.Price.IsNegative() || !cents.IsInteger() {
			return e.Wrap(row.Name, e.ErrInvalidPrice)
		}

		product := domain.NewProduct(row.Name, row.Description, cents.IntPart(), row.Stock)
		product.ImageURL = row.ImageURL

		if _, err := products.Create(ctx, product); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	logger.Infof("seeded %d products from %s", len(rows), path)
	return nil
}
