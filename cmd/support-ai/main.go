package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/config"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/db"
	dbRedis "github.com/RazakHamidu/lottomatica-support-ai/internal/db/redis"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/kb"
	logpkg "github.com/RazakHamidu/lottomatica-support-ai/internal/logger"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/metrics"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/repository/embcache"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/repository/history"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/repository/index"
	chiTransport "github.com/RazakHamidu/lottomatica-support-ai/internal/transport/chi"
	openaiTransport "github.com/RazakHamidu/lottomatica-support-ai/internal/transport/openai"
	chatuc "github.com/RazakHamidu/lottomatica-support-ai/internal/usecase/chat"
	healthuc "github.com/RazakHamidu/lottomatica-support-ai/internal/usecase/health"
	promptuc "github.com/RazakHamidu/lottomatica-support-ai/internal/usecase/prompt"
	retrievaluc "github.com/RazakHamidu/lottomatica-support-ai/internal/usecase/retrieval"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting support AI server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("generation_model", cfg.Generation.Model),
	)

	ctx := context.Background()

	// Register domain metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGenerationMetrics()

	// Optional embedding cache backend
	var cacheStore db.Store
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cacheStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	docEmbedder := buildDocumentEmbedder(baseEmbedder, cfg.Embedding.DocumentInstruction)
	queryEmbedder := buildQueryEmbedder(baseEmbedder, cfg, cacheStore, logger)
	logger.Info("Embedders created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Load the knowledge base and build the semantic index.
	entries, err := kb.Load(cfg.KnowledgeBase.Dir)
	if err != nil {
		logger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	vectors, err := docEmbedder.BatchEmbed(ctx, kb.Texts(entries))
	if err != nil {
		logger.Fatal("Failed to embed knowledge base", zap.Error(err))
	}
	semIndex := index.New(queryEmbedder)
	if err := semIndex.Load(entries, vectors); err != nil {
		logger.Fatal("Failed to build semantic index", zap.Error(err))
	}
	logger.Info("Knowledge base indexed", zap.Int("entries", semIndex.Len()))

	template, err := promptuc.LoadTemplate(cfg.Prompt.TemplatePath)
	if err != nil {
		logger.Fatal("Failed to load prompt template", zap.Error(err))
	}

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Logger:      logger,
	})

	// Create use case services
	retrievalSvc := retrievaluc.New(semIndex, cfg.Retrieval.TopK, cfg.Retrieval.MinScore)
	composer := promptuc.NewComposer(template, cfg.Prompt.IncludeScore, cfg.Prompt.HistoryWindow)
	chatSvc := chatuc.New(retrievalSvc, composer, generator, history.NewStore(), logger)

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(semIndex, baseEmbedder, cachePinger)

	server := chiTransport.NewServer(chatSvc, retrievalSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildDocumentEmbedder wraps the provider with the document instruction
// prefix. Document embedding happens once at startup, so it is never cached.
func buildDocumentEmbedder(base *openaiTransport.Embedder, instruction string) domain.BatchEmbedder {
	if instruction != "" {
		return domain.NewInstructionEmbedder(base, instruction)
	}
	return base
}

// buildQueryEmbedder assembles the query chain: OpenAI -> Cached -> Instruction.
// The instruction prefix sits outermost so the cache key includes it.
func buildQueryEmbedder(
	base *openaiTransport.Embedder,
	cfg config.Config,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	var embedder domain.Embedder = base
	if store != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		embedder = embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	if instruction := cfg.Embedding.QueryInstruction; instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}
