package main

import (
	"context"
	"time"

	"pos/internal/config"
	"pos/internal/domain/model"
	"pos/internal/handler"
	"pos/internal/infra/cache"
	"pos/internal/infra/db"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/server"
	"pos/internal/usecase"
	auth "pos/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":           userID,
		"role":          string(role),
		"token_version": tokenVersion,
		"iat":           now.Unix(),
		"exp":           expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無ければ無いで構わない
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}
	log := config.NewLogger(cfg)

	gormDB, err := db.Connect()
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.ProductCategory{},
		&model.Product{},
		&model.Customer{},
		&model.Supplier{},
		&model.DocumentSequence{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Invoice{},
		&model.InventoryReceiving{},
		&model.InventoryReceivingItem{},
		&model.PurchaseOrder{},
		&model.PurchaseItem{},
		&model.StockMovement{},
	); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	// Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	supplierRepo := infraRepo.NewSupplierGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	receivingRepo := infraRepo.NewReceivingGormRepository(gormDB)
	poRepo := infraRepo.NewPurchaseOrderGormRepository(gormDB)
	reportRepo := infraRepo.NewReportGormRepository(gormDB)
	userRepo := infraRepo.NewUserRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)

	// usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := usecase.RealClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}
	refreshTTL := 14 * 24 * time.Hour

	// ダッシュボードキャッシュ。Redisが無ければnoop。
	var dashCache usecase.DashboardCache = cache.NoopDashboardCache{}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisDashboardCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.WithError(err).Warn("redis unavailable, dashboard cache disabled")
		} else {
			dashCache = rc
			defer rc.Close()
		}
	}

	// Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, idGen, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, refreshTTL)

	productUC := usecase.NewProductUsecase(productRepo)
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	supplierUC := usecase.NewSupplierUsecase(supplierRepo)
	saleUC := usecase.NewSaleUsecase(txManager, saleRepo, customerRepo, clock)
	receivingUC := usecase.NewReceivingUsecase(txManager, receivingRepo, supplierRepo, clock)
	poUC := usecase.NewPurchaseOrderUsecase(txManager, poRepo, supplierRepo, clock)
	dashboardUC := usecase.NewDashboardUsecase(reportRepo, productRepo, dashCache, clock, log)

	// Handler生成
	h := server.Handlers{
		Auth:          handler.NewAuthHandler(registerUC, loginUC, refreshUC, refreshTTL, cfg.GoEnv == "prod"),
		Product:       handler.NewProductHandler(productUC),
		Customer:      handler.NewCustomerHandler(customerUC),
		Supplier:      handler.NewSupplierHandler(supplierUC),
		Sale:          handler.NewSaleHandler(saleUC),
		Receiving:     handler.NewReceivingHandler(receivingUC),
		PurchaseOrder: handler.NewPurchaseOrderHandler(poUC),
		Dashboard:     handler.NewDashboardHandler(dashboardUC),
	}

	e := server.New(log)
	server.RegisterRoutes(e, cfg, userRepo, h)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
