// Package app wires the application together: Genkit, the database pool,
// the passage index, the answer pipeline, and the feedback store. Commands
// call Setup once and work against the App container.
package app

import (
	"context"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmeyers/treatybot/internal/answer"
	"github.com/lmeyers/treatybot/internal/config"
	"github.com/lmeyers/treatybot/internal/feedback"
	"github.com/lmeyers/treatybot/internal/ingest"
	"github.com/lmeyers/treatybot/internal/log"
	"github.com/lmeyers/treatybot/internal/passage"
	"github.com/lmeyers/treatybot/internal/token"
)

// App is the application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	Counter  *token.Counter
	Passages *passage.Store
	Feedback *feedback.Store
	Pipeline *answer.Pipeline
	Flow     *answer.Flow

	otelShutdown func(context.Context) error
}

// shutdownTimeout bounds resource teardown in Close.
const shutdownTimeout = 5 * time.Second

// Close releases all resources. Safe to call on a partially initialized App.
func (a *App) Close() error {
	a.logger().Info("shutting down application")

	var firstErr error
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.logger().Warn("shutting down tracer provider", "error", err)
			firstErr = err
		}
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.logger().Info("database pool closed")
	}
	return firstErr
}

// NewIndexer creates an indexer over the passage store, for the index
// command.
func (a *App) NewIndexer() *ingest.Indexer {
	return ingest.NewIndexer(a.Passages, a.Counter, a.logger().With("component", "ingest"))
}

func (a *App) logger() log.Logger {
	if a.Logger == nil {
		return log.NewNop()
	}
	return a.Logger
}
