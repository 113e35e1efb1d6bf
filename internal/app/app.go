package app

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/config"
	"github.com/klixid/movie-booking/internal/cache"
	"github.com/klixid/movie-booking/internal/mq"
	"github.com/klixid/movie-booking/internal/payment"
	"github.com/klixid/movie-booking/internal/repository"
	"github.com/klixid/movie-booking/internal/service/domain"
	"github.com/klixid/movie-booking/internal/service/workflow"
	"github.com/klixid/movie-booking/internal/tmdb"
)

type App struct {
	Config *config.Config

	DB     *gorm.DB
	Cache  *cache.RedisCache
	Logger *zap.Logger
	MQConn *amqp.Connection

	AuthService     domain.AuthService
	MovieService    domain.MovieService
	ShowService     domain.ShowService
	ShowtimeService domain.ShowtimeService
	SeatService     domain.SeatService
	BookingService  domain.BookingService
	PaymentService  domain.PaymentService
	StatsService    domain.StatsService

	BookingWorkflow workflow.BookingFlow
	PaymentWorkflow *workflow.PaymentWorkflow
}

func New(config *config.Config, db *gorm.DB, cache *cache.RedisCache,
	mqConn *amqp.Connection, logger *zap.Logger) *App {
	userRepo := repository.NewUserRepoGorm(db)
	showtimeRepo := repository.NewShowtimeRepoGorm(db)
	seatRepo := repository.NewSeatRepoGorm(db)
	bookingRepo := repository.NewBookingRepoGorm(db)

	catalog := tmdb.NewClient(config.TMDBBaseURL, config.TMDBAPIKey)
	gateway := payment.NewMockClient(config.PaymentSuccessRate)

	authService := domain.NewAuthService(logger, config.JWTSecret, userRepo)
	movieService := domain.NewMovieService(catalog, cache, logger, userRepo, showtimeRepo)
	showService := domain.NewShowService(catalog, cache, logger)
	showtimeService := domain.NewShowtimeService(db, cache, logger, showtimeRepo, seatRepo, bookingRepo)
	seatService := domain.NewSeatService(db, cache, logger, seatRepo, showtimeRepo)
	bookingService := domain.NewBookingService(db, cache, logger, bookingRepo, seatRepo, showtimeRepo)
	paymentService := domain.NewPaymentService(db, logger, bookingRepo)
	statsService := domain.NewStatsService(db, logger, bookingRepo, showtimeRepo)

	bookingWorkflow := workflow.NewBookingWorkflow(bookingService, paymentService, mqConn, logger)
	paymentWorkflow := workflow.NewPaymentWorkflow(paymentService, gateway, logger)

	return &App{
		Config:          config,
		DB:              db,
		Cache:           cache,
		Logger:          logger,
		MQConn:          mqConn,
		AuthService:     authService,
		MovieService:    movieService,
		ShowService:     showService,
		ShowtimeService: showtimeService,
		SeatService:     seatService,
		BookingService:  bookingService,
		PaymentService:  paymentService,
		StatsService:    statsService,
		BookingWorkflow: bookingWorkflow,
		PaymentWorkflow: paymentWorkflow,
	}
}

func (app *App) Init() error {
	if err := mq.InitQueues(app.MQConn); err != nil {
		return err
	}

	if err := app.PaymentWorkflow.Start(app.MQConn); err != nil {
		return err
	}
	if err := app.BookingWorkflow.Start(app.MQConn); err != nil {
		return err
	}

	// repair seat flags and counters left behind by a crash
	released, err := app.BookingService.ReconcileSeats()
	if err != nil {
		return err
	}
	if released > 0 {
		app.Logger.Info("released stale seat claims at startup", zap.Int64("count", released))
	}

	return nil
}

func (app *App) Close() error {
	if app.MQConn != nil {
		app.MQConn.Close()
	}
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
