package main

import (
	"context"
	"time"

	"github.com/moneybridge/moneybridge/config"
	"github.com/moneybridge/moneybridge/controllers"
	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/routes"
	"github.com/moneybridge/moneybridge/services"
	"github.com/moneybridge/moneybridge/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	if err := utils.InitSentry(cfg); err != nil {
		utils.Sugar.Warnf("sentry disabled: %v", err)
	}
	defer utils.FlushSentry()

	ctx := context.Background()
	shutdownTracing, err := utils.InitTracing(ctx, cfg)
	if err != nil {
		utils.Sugar.Fatalf("tracing: %v", err)
	}

	db := config.InitDatabase(models.All()...)

	var cache *utils.Cache
	if cfg.CacheEnabled {
		rc := utils.NewRedisClient(cfg)
		defer func() { _ = rc.Close() }()
		cache = utils.NewCache(rc, time.Hour)
	}

	storage, err := utils.NewStorage(ctx, cfg)
	if err != nil {
		utils.Sugar.Fatalf("storage: %v", err)
	}
	geocoder := utils.NewNaverGeocoder(cfg)
	mailer := utils.NewSMTPMailer(cfg)

	boards := services.NewBoardService(db, storage, cfg.DefaultThumbnail)
	office := services.NewBackOfficeService(db, storage, geocoder, mailer, cache, services.MailTemplates{
		SubjectApprove: cfg.MailSubjectApprove,
		MsgApprove:     cfg.MailMsgApprove,
		SubjectReject:  cfg.MailSubjectReject,
		MsgReject:      cfg.MailMsgReject,
	}, cfg.DefaultThumbnail)
	reservations := services.NewReservationService(db)

	r := routes.SetupRouter(cfg, routes.Controllers{
		Board:       controllers.NewBoardController(boards),
		BackOffice:  controllers.NewBackOfficeController(office),
		Reservation: controllers.NewReservationController(reservations),
	})

	closeDB := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, shutdownTracing, closeDB); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
