package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/agent"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/api"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/service"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/store"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/config"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/kafka"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/milvus"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/minio"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/mysql"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/redis"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/embedding"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/pricing"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/pipeline"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/splitters"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/storages/docstore"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/storages/vectorstore"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("agent_server", "", "")
	appLogger.Info("Logger initialized")

	ctx := context.Background()

	// Initialize MySQL
	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Document{},
		&models.DocumentChunk{},
	); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	// Initialize Redis (price cache)
	redisClient, err := redis.GetClient(&cfg.Databases.Redis)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	// Initialize embedding model
	embedder, err := embedding.NewModel(cfg.Embedding)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	// Initialize vector store backend
	var vecStore interfaces.VectorStore
	switch cfg.RAG.Backend {
	case "memory":
		vecStore = vectorstore.NewMemoryStore(cfg.Embedding.Dim)
		appLogger.Info("Using in-memory vector store")
	default:
		milvusClient, err := milvus.GetClient(ctx, &cfg.Databases.Milvus)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		if err := milvusClient.EnsureCollection(ctx, cfg.Embedding.Dim); err != nil {
			appLogger.Fatal(err.Error())
		}
		vecStore, err = vectorstore.NewMilvusStore(milvusClient, cfg.Embedding.Dim, appLogger)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
	}

	docStore := docstore.NewGormStore(db)

	// RAG pipelines
	splitter, err := newSplitter(cfg)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	indexer := pipeline.NewIndexingPipeline(splitter, embedder, docStore, vecStore, appLogger)
	retriever := pipeline.NewRetrievalPipeline(embedder, vecStore, docStore, appLogger)

	// LLM client
	model, err := llm.NewClient(cfg.LLM)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	// Price service behind a Redis-backed TTL cache
	priceClient := pricing.NewClient(cfg.Pricing.BaseURL, cfg.Pricing.APIKey,
		time.Duration(cfg.Pricing.TimeoutSeconds)*time.Second)
	priceCache := pricing.NewRedisCache(redisClient, appLogger)
	priceService := pricing.NewService(priceClient, priceCache,
		time.Duration(cfg.Pricing.TTLSeconds)*time.Second)

	// Conversation agent
	chatStore := store.NewStore(db)
	history := store.NewGormHistory(chatStore)
	chatAgent := agent.New(model, retriever, priceService, history, appLogger, agent.Config{
		TopK:         cfg.RAG.TopK,
		HistoryLimit: cfg.RAG.HistoryLimit,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		Asset:        cfg.Pricing.Asset,
		Currency:     cfg.Pricing.Currency,
	})

	// Optional infrastructure
	var events *kafka.ChatEventPublisher
	if cfg.Kafka.Enabled {
		kafkaClient, err := kafka.GetClient(&cfg.Kafka)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		events = kafka.NewChatEventPublisher(kafkaClient)
	}

	var objects *minio.Client
	if cfg.MinIO.Enabled {
		objects, err = minio.GetClient(ctx, &cfg.MinIO)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
	}

	// Wire dependencies (Store -> Service -> Handler)
	chatService := service.NewService(
		chatStore, chatAgent, priceService, indexer, vecStore, docStore,
		objects, events,
		cfg.Auth.JwtSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second,
		appLogger,
	)
	apiHandler := api.NewHandler(chatService)
	appLogger.Info("Dependencies injected")

	// Setup and start Gin router
	router := api.SetupRouter(apiHandler, cfg.Auth.JwtSecret, cfg.Pricing.Asset, cfg.Pricing.Currency)
	appLogger.Info("Starting server on " + cfg.Server.Address)

	if err := router.Run(cfg.Server.Address); err != nil {
		appLogger.Fatal(err.Error())
	}
}

// newSplitter 根据配置选择分块策略。
func newSplitter(cfg *config.AppConfig) (interfaces.Splitter, error) {
	if cfg.RAG.Splitter == "token" {
		return splitters.NewTokenSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	return splitters.NewCharacterSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
}
