package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-catalog/internal/config"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/infrastructure/mongodb"
	"library-catalog/pkg/cache"

	authorHandler "library-catalog/internal/domains/author/handler"
	authorRepo "library-catalog/internal/domains/author/repository"
	authorService "library-catalog/internal/domains/author/service"
	bookHandler "library-catalog/internal/domains/book/handler"
	bookRepo "library-catalog/internal/domains/book/repository"
	bookService "library-catalog/internal/domains/book/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của catalog
// Thứ tự build: Config -> Store -> Cache -> Repositories -> Services -> Handlers
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Chỉ một trong DB / Mongo được set, tùy STORE_DRIVER

	Config *config.Config
	DB     *database.PostgresDB
	Mongo  *mongodb.MongoDB
	Cache  cache.Cache

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	AuthorRepo authorRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthorHandler *authorHandler.Handler
	BookHandler   *bookHandler.Handler
}

// NewContainer load config rồi build container
func NewContainer() (*Container, error) {
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Printf("✅ Config loaded (Environment: %s, Store: %s)", cfg.App.Environment, cfg.Store.Driver)

	return NewWithConfig(cfg)
}

// NewWithConfig build dependency graph từ config có sẵn.
// Nếu store không connect được thì trả về error, Redis lỗi chỉ warning.
func NewWithConfig(cfg *config.Config) (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: CONNECT STORE
	// ========================================
	if err := c.initStore(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 2: INITIALIZE CACHE
	// ========================================
	c.initCache()

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.BookRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.AuthorHandler = authorHandler.NewHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch c.Config.Store.Driver {
	case config.StoreDriverPostgres:
		log.Println("🗄️  Connecting to PostgreSQL...")

		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)
		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		log.Println("✅ Database connected")

	case config.StoreDriverMongo:
		log.Println("🍃 Connecting to MongoDB...")

		m, err := mongodb.Connect(ctx, c.Config.Mongo.URI, c.Config.Mongo.Database, c.Config.Mongo.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		c.Mongo = m
		log.Printf("✅ MongoDB connected (database: %s)", c.Config.Mongo.Database)

	default:
		// memory store: dữ liệu mất khi restart
		log.Println("⚠️  Using in-memory store, data is not persisted")
	}

	return nil
}

func (c *Container) initCache() {
	c.Cache = cache.Nop{}

	if !c.Config.Redis.Enabled {
		log.Println("⚪ Redis disabled, counts are not cached")
		return
	}

	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	rc, ok := redisCache.(*infraCache.RedisCache)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		// Redis failure không critical - chạy tiếp không cache
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		_ = rc.Close()
		return
	}

	c.Cache = redisCache
	log.Println("✅ Redis connected")
}

func (c *Container) initRepositories() {
	var (
		authors authorRepo.RepositoryInterface
		books   bookRepo.RepositoryInterface
	)

	switch {
	case c.DB != nil:
		authors = authorRepo.NewPostgresRepository(c.DB.Pool)
		books = bookRepo.NewPostgresRepository(c.DB.Pool)
	case c.Mongo != nil:
		authors = authorRepo.NewMongoRepository(c.Mongo)
		books = bookRepo.NewMongoRepository(c.Mongo, authors)
	default:
		mem := authorRepo.NewMemoryRepository()
		authors = mem
		books = bookRepo.NewMemoryRepository(mem)
	}

	ttl := c.Config.Redis.CountTTL
	c.AuthorRepo = authorRepo.NewCachedRepository(authors, c.Cache, ttl)
	c.BookRepo = bookRepo.NewCachedRepository(books, c.Cache, ttl)
}

// HealthCheck ping store đang dùng
func (c *Container) HealthCheck(ctx context.Context) error {
	switch {
	case c.DB != nil:
		return c.DB.HealthCheck(ctx)
	case c.Mongo != nil:
		return c.Mongo.HealthCheck(ctx)
	default:
		return nil
	}
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Close(ctx); err != nil {
			log.Printf("⚠️  Failed to close MongoDB: %v", err)
		} else {
			log.Println("✅ MongoDB disconnected")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
