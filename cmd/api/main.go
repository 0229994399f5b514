package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/eia"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.Client{},
		&model.ClientBranch{},
		&model.Driver{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.AdditionalCharge{},
		&model.InvoiceChangeLog{},
		&model.SystemLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	invoiceRepo := infraRepo.NewInvoiceGormRepository(gormDB)
	itemRepo := infraRepo.NewInvoiceItemGormRepository(gormDB)
	chargeRepo := infraRepo.NewAdditionalChargeGormRepository(gormDB)
	clientRepo := infraRepo.NewClientGormRepository(gormDB)
	branchRepo := infraRepo.NewClientBranchGormRepository(gormDB)
	driverRepo := infraRepo.NewDriverGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	changeLogRepo := infraRepo.NewInvoiceChangeLogGormRepository(gormDB)
	systemLogRepo := infraRepo.NewSystemLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//EIAクライアント（ディーゼル単価）
	eiaClient := eia.NewClient(cfg.EIAAPIKey)

	//Usecase生成
	logRecordUC := usecase.NewInvoiceLogUsecase(changeLogRepo, systemLogRepo, idGen, clock)
	logFeedUC := usecase.NewLogUsecase(changeLogRepo, systemLogRepo, invoiceRepo, profileRepo)
	invoiceUC := usecase.NewInvoiceUsecase(txManager, invoiceRepo, itemRepo, chargeRepo, clientRepo, logRecordUC, idGen, clock)
	clientUC := usecase.NewClientUsecase(clientRepo, branchRepo, idGen)
	driverUC := usecase.NewDriverUsecase(driverRepo, profileRepo, idGen)
	profileUC := usecase.NewProfileUsecase(profileRepo, logRecordUC)
	fuelUC := usecase.NewFuelUsecase(eiaClient, nil, clock)

	//Handler生成
	invoiceH := handler.NewInvoiceHandler(invoiceUC, logRecordUC)
	logH := handler.NewLogHandler(logFeedUC)
	clientH := handler.NewClientHandler(clientUC)
	driverH := handler.NewDriverHandler(driverUC)
	profileH := handler.NewProfileHandler(profileUC)
	fuelH := handler.NewFuelHandler(fuelUC)

	//Server起動
	e := server.New(cfg)
	invoiceH.RegisterRoutes(e, cfg)
	logH.RegisterRoutes(e, cfg)
	clientH.RegisterRoutes(e, cfg)
	driverH.RegisterRoutes(e, cfg)
	profileH.RegisterRoutes(e, cfg)
	fuelH.RegisterRoutes(e, cfg)

	if err := server.Start(e, cfg); err != nil {
		panic(err)
	}
}
