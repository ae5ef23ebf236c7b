package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maisachinsharmahu/vanbackend/internal/config"
	amqpinfra "github.com/maisachinsharmahu/vanbackend/internal/infra/amqp"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	redrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/redis"
	adventuressvc "github.com/maisachinsharmahu/vanbackend/internal/services/adventures"
	authsvc "github.com/maisachinsharmahu/vanbackend/internal/services/auth"
	chatsvc "github.com/maisachinsharmahu/vanbackend/internal/services/chat"
	entsvc "github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	feedsvc "github.com/maisachinsharmahu/vanbackend/internal/services/feed"
	likessvc "github.com/maisachinsharmahu/vanbackend/internal/services/likes"
	matchessvc "github.com/maisachinsharmahu/vanbackend/internal/services/matches"
	"github.com/maisachinsharmahu/vanbackend/internal/services/notify"
	postssvc "github.com/maisachinsharmahu/vanbackend/internal/services/posts"
	premiumsvc "github.com/maisachinsharmahu/vanbackend/internal/services/premium"
	ratesvc "github.com/maisachinsharmahu/vanbackend/internal/services/rate"
	swipesvc "github.com/maisachinsharmahu/vanbackend/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	publisher  *amqpinfra.Publisher
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)

	txManager := pgrepo.NewTxManager(pool)
	pairRepo := pgrepo.NewPairRepo(pool)
	userRepo := pgrepo.NewUserRepo(pool)
	usageRepo := pgrepo.NewUsageRepo(pool)
	postRepo := pgrepo.NewPostRepo(pool)
	adventureRepo := pgrepo.NewAdventureRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)

	var publisher *amqpinfra.Publisher
	var sink notify.Sink
	if p, err := amqpinfra.NewPublisher(amqpinfra.Config{
		URL:      cfg.AMQP.URL,
		Exchange: cfg.AMQP.Exchange,
	}); err != nil {
		log.Warn("amqp init failed, continuing in degraded mode", zap.Error(err))
	} else {
		publisher = p
		sink = p
	}
	emitter := notify.NewEmitter(sink, log)

	entitlementService := entsvc.NewService(entsvc.Dependencies{
		Users:      userRepo,
		Usage:      usageRepo,
		Posts:      postRepo,
		Adventures: adventureRepo,
		Logger:     log,
	}, entsvc.Config{
		FreeSwipesPerDay:       cfg.Limits.FreeSwipesPerDay,
		FreePostsTotal:         cfg.Limits.FreePostsTotal,
		FreeAdventuresPerMonth: cfg.Limits.FreeAdventuresPerMonth,
		DefaultTimezone:        cfg.Limits.DefaultTimezone,
	})
	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Limits.PremiumRatePerMinute,
		cfg.Limits.PremiumRatePer10Seconds,
	)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Tx:           txManager,
		Pairs:        pairRepo,
		Entitlements: entitlementService,
		Notifier:     emitter,
		RateLimiter:  rateLimiter,
		Logger:       log,
	})
	likeService := likessvc.NewService(pairRepo, likessvc.Config{})
	matchService := matchessvc.NewService(pairRepo, matchessvc.Config{})
	feedService := feedsvc.NewService(pairRepo, userRepo, feedsvc.Config{})
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Pairs:        pairRepo,
		Messages:     messageRepo,
		Entitlements: entitlementService,
		Notifier:     emitter,
	}, chatsvc.Config{})
	postService := postssvc.NewService(postssvc.Dependencies{
		Posts:        postRepo,
		Entitlements: entitlementService,
		Notifier:     emitter,
	})
	adventureService := adventuressvc.NewService(adventureRepo, entitlementService, adventuressvc.Config{})
	premiumService := premiumsvc.NewService(premiumsvc.Dependencies{
		Users:  userRepo,
		Usage:  entitlementService,
		Logger: log,
	})
	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		SwipeService:     swipeService,
		LikeService:      likeService,
		MatchService:     matchService,
		FeedService:      feedService,
		ChatService:      chatService,
		PostService:      postService,
		AdventureService: adventureService,
		PremiumService:   premiumService,
		JWTManager:       jwtManager,
		Logger:           log,
		Config:           cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		publisher:  publisher,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
