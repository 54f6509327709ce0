package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"glasscode-quiz-service/internal/config"
	"glasscode-quiz-service/internal/domain"
	"glasscode-quiz-service/internal/infra/memory"
	pgloader "glasscode-quiz-service/internal/infra/postgres"
	redisinfra "glasscode-quiz-service/internal/infra/redis"
	"glasscode-quiz-service/internal/progress"
	"glasscode-quiz-service/internal/quiz"
	"glasscode-quiz-service/internal/timer"
	transport "glasscode-quiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer logger.Sync()
	log := logger.Sugar()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.ContentLoader = memory.NewStaticContentLoader(sampleContent())
	if pool != nil {
		loader = pgloader.NewContentLoader(pool)
	}
	contentTTL := config.TTLDuration(cfg.Quiz.ContentTTL, 10*time.Minute)
	registry := memory.NewContentRegistry(loader, contentTTL)

	var sessions quiz.SessionRepository
	var histories quiz.HistoryRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL, log)
		histories = redisinfra.NewHistoryStore(redisClient, cfg.Quiz.HistoryLimit)
	} else {
		sessions = memory.NewSessionStore(log)
		histories = memory.NewHistoryStore(cfg.Quiz.HistoryLimit)
	}

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer bus.Close()
	if err := progress.Consume(ctx, bus, progress.DefaultTopic, log); err != nil {
		return err
	}
	reporter := progress.NewReporter(bus, progress.DefaultTopic)

	service := quiz.NewService(
		registry,
		sessions,
		histories,
		reporter,
		nil, nil,
		quiz.Settings{
			TargetQuestions: cfg.Quiz.TargetQuestions,
			PassingScore:    cfg.Quiz.PassingScore,
		},
		log,
	)
	wsHandler := transport.NewWSHandler(service, timer.NewClock(), log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Infow("starting quiz session service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Infow("shutting down server")
	case <-ctx.Done():
		log.Infow("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleContent provides a minimal curriculum for running without Postgres.
func sampleContent() map[string]domain.ModuleContent {
	correct := 1
	tfCorrect := 0
	return map[string]domain.ModuleContent{
		"programming": {
			Module: domain.Module{
				Slug:  "programming",
				Title: "Programming Fundamentals",
				Thresholds: domain.ModuleThresholds{
					RequiredLessons:   1,
					RequiredQuestions: 2,
					MinQuizQuestions:  2,
					PassingScore:      70,
				},
			},
			Lessons: []domain.Lesson{
				{ID: 1, Title: "Variables and Types"},
				{ID: 2, Title: "Control Flow"},
			},
			Quiz: domain.Quiz{
				Questions: []domain.Question{
					{
						ID:            1,
						Topic:         "Basics",
						Type:          domain.MultipleChoice,
						Text:          "What is 2 + 2?",
						Choices:       []string{"3", "4", "5"},
						CorrectAnswer: &correct,
					},
					{
						ID:            2,
						Topic:         "Basics",
						Type:          domain.TrueFalse,
						Text:          "A variable can change its value.",
						Choices:       []string{"True", "False"},
						CorrectAnswer: &tfCorrect,
					},
					{
						ID:              3,
						Topic:           "Loops",
						Type:            domain.OpenEnded,
						Text:            "Which keyword starts a loop in Go?",
						AcceptedAnswers: []string{"for"},
					},
				},
			},
		},
	}
}
