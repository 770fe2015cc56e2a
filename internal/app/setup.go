package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmeyers/treatybot/db"
	"github.com/lmeyers/treatybot/internal/answer"
	"github.com/lmeyers/treatybot/internal/config"
	"github.com/lmeyers/treatybot/internal/feedback"
	"github.com/lmeyers/treatybot/internal/log"
	"github.com/lmeyers/treatybot/internal/observability"
	"github.com/lmeyers/treatybot/internal/passage"
	"github.com/lmeyers/treatybot/internal/token"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing first so Genkit's TracerProvider picks up the processor.
	otelShutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Environment: cfg.Environment,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.otelShutdown = otelShutdown

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	counter, err := token.NewCounter()
	if err != nil {
		return nil, fmt.Errorf("creating token counter: %w", err)
	}
	a.Counter = counter

	a.Passages = passage.NewStore(
		passage.NewQueries(pool),
		embedder,
		logger.With("component", "passage"),
	)

	generator := answer.NewGenerator(g, cfg.ModelName, logger.With("component", "answer"))
	a.Pipeline = answer.NewPipeline(a.Passages, generator, counter, cfg.ContextTokens, cfg.RetrievalLimit)
	a.Flow = a.Pipeline.DefineFlow(g)

	a.Feedback = feedback.NewStore(
		feedback.NewQueries(pool),
		logger.With("component", "feedback"),
	)

	return a, nil
}

// provideGenkit initializes Genkit with the Google AI plugin.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	return g, nil
}

// provideDBPool creates a PostgreSQL connection pool and runs migrations.
// Pool is configured with sensible defaults for connection management.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// compile-time check: the passage store satisfies the pipeline's retriever
// contract.
var _ answer.Retriever = (*passage.Store)(nil)
