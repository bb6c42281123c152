// Package server builds the storefront from configuration: storage, cache,
// services and the HTTP app.
package server

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/freshcart/grocery-backend/internal/address"
	"github.com/freshcart/grocery-backend/internal/cache"
	"github.com/freshcart/grocery-backend/internal/cart"
	"github.com/freshcart/grocery-backend/internal/catalog"
	"github.com/freshcart/grocery-backend/internal/category"
	"github.com/freshcart/grocery-backend/internal/config"
	"github.com/freshcart/grocery-backend/internal/database"
	"github.com/freshcart/grocery-backend/internal/interface/http/router"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/order"
	"github.com/freshcart/grocery-backend/internal/product"
	"github.com/freshcart/grocery-backend/internal/scan"
	"github.com/freshcart/grocery-backend/internal/upload"
	"github.com/freshcart/grocery-backend/internal/user"
)

// Server owns the app and the connections behind it.
type Server struct {
	App *fiber.App

	db    *sql.DB
	redis *redis.Client
}

type repositories struct {
	categories category.Repository
	products   product.Repository
	users      user.Repository
	addresses  address.Repository
	carts      cart.Repository
	orders     order.Repository
}

// Build wires every component. With no database url the stores are in
// memory; with no redis url catalog reads go straight to the product store.
func Build(ctx context.Context, cfg config.Config, logger logging.Logger) (*Server, error) {
	logger = logging.OrNoOp(logger)
	s := &Server{}

	repos, err := s.openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	categories := category.NewService(repos.categories)

	opts := []product.Option{product.WithLogger(logger)}
	var catalogStore catalog.Store = repos.products
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.redis = client
		snapshot := cache.NewProductSnapshot(client, repos.products, cache.WithTTL(cfg.CacheTTL), cache.WithLogger(logger))
		opts = append(opts, product.WithInvalidator(snapshot))
		catalogStore = snapshot
		logger.Info("catalog cache enabled", map[string]interface{}{"ttl": cfg.CacheTTL.String()})
	}
	products := product.NewService(repos.products, categories, opts...)
	engine := catalog.NewEngine(catalogStore, categories, logger)

	users := user.NewService(repos.users, logger)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			s.Close()
			return nil, err
		}
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("JWT_SECRET not set, tokens will not survive a restart", nil)
	}
	tokens := user.NewTokens(secret)

	addresses := address.NewService(repos.addresses)
	carts := cart.NewService(repos.carts, products, cfg.Tax(), logger)
	orders := order.NewService(repos.orders, carts, addresses, logger)

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	scans := scan.NewService(scan.NewKeywordRecognizer(), engine, logger)

	s.App = router.New(router.Handlers{
		Users:      user.NewHandler(users, tokens),
		Categories: category.NewHandler(categories),
		Catalog:    catalog.NewHandler(engine, categories),
		Products:   product.NewHandler(products, cfg.AllowReset),
		Cart:       cart.NewHandler(carts),
		Orders:     order.NewHandler(orders),
		Addresses:  address.NewHandler(addresses),
		Uploads:    upload.NewHandler(uploads),
		Scan:       scan.NewHandler(scans),
	}, tokens, logger)
	return s, nil
}

func (s *Server) openStores(ctx context.Context, cfg config.Config, logger logging.Logger) (repositories, error) {
	now := time.Now().UTC()
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage", nil)
		var cats []category.Category
		var ps []product.Product
		if cfg.SeedCatalog {
			cats, ps = category.SampleCategories(now), product.SampleProducts(now)
		}
		return repositories{
			categories: category.NewInMemoryRepository(cats),
			products:   product.NewInMemoryRepository(ps),
			users:      user.NewInMemoryRepository(nil),
			addresses:  address.NewInMemoryRepository(nil),
			carts:      cart.NewInMemoryRepository(nil),
			orders:     order.NewInMemoryRepository(),
		}, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, err
	}
	s.db = db
	if err := database.Migrate(ctx, db); err != nil {
		s.Close()
		return repositories{}, err
	}
	if cfg.SeedCatalog {
		n, err := database.Seed(ctx, db, category.SampleCategories(now), product.SampleProducts(now))
		if err != nil {
			s.Close()
			return repositories{}, err
		}
		if n > 0 {
			logger.Info("seeded starter catalog", map[string]interface{}{"rows": n})
		}
	}
	return repositories{
		categories: category.NewPostgresRepository(db),
		products:   product.NewPostgresRepository(db),
		users:      user.NewPostgresRepository(db),
		addresses:  address.NewPostgresRepository(db),
		carts:      cart.NewPostgresRepository(db),
		orders:     order.NewPostgresRepository(db),
	}, nil
}

// Close releases the database and cache connections.
func (s *Server) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
		s.redis = nil
	}
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
}
