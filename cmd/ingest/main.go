package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/service"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/chat_service/store"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/config"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/milvus"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/minio"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/database/mysql"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/embedding"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/pipeline"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/splitters"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/storages/docstore"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/storages/vectorstore"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// 将一个文件或网页摄取进知识库。
//
//	ingest -path whitepaper.pdf -title "Bitcoin Whitepaper"
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	path := flag.String("path", "", "本地文件路径或网页 URL")
	title := flag.String("title", "", "文档标题，缺省时使用路径")
	sourceType := flag.String("type", "", "来源类型 (txt, markdown, pdf, web)，缺省时自动检测")
	flag.Parse()

	if *path == "" {
		log.Fatal("missing required flag: -path")
	}
	if *title == "" {
		*title = *path
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("ingest", "", "")

	ctx := context.Background()

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	if err := db.AutoMigrate(&models.Document{}, &models.DocumentChunk{}); err != nil {
		appLogger.Fatal(err.Error())
	}

	embedder, err := embedding.NewModel(cfg.Embedding)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	var vecStore interfaces.VectorStore
	switch cfg.RAG.Backend {
	case "memory":
		// 内存后端随进程消失，摄取结果无法被服务端看到。
		appLogger.Warn("Ingesting into the in-memory vector store; data is lost on exit")
		vecStore = vectorstore.NewMemoryStore(cfg.Embedding.Dim)
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

	var splitter interfaces.Splitter
	if cfg.RAG.Splitter == "token" {
		splitter, err = splitters.NewTokenSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	} else {
		splitter, err = splitters.NewCharacterSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	indexer := pipeline.NewIndexingPipeline(splitter, embedder, docStore, vecStore, appLogger)

	var objects *minio.Client
	if cfg.MinIO.Enabled {
		objects, err = minio.GetClient(ctx, &cfg.MinIO)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
	}

	chatStore := store.NewStore(db)
	ingestService := service.NewService(
		chatStore, nil, nil, indexer, vecStore, docStore,
		objects, nil,
		cfg.Auth.JwtSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second,
		appLogger,
	)

	count, err := ingestService.IngestDocument(ctx, *title, *path, *sourceType)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	fmt.Printf("Ingested %q: %d chunks\n", *title, count)
}
