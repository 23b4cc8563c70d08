package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/agent"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/config"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/llm"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/pricing"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// 单用户命令行会话，历史和价格缓存都只存在于进程内。
// 不接知识库，只有价格工具。
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 命令行下只输出警告以上的日志，避免干扰对话。
	logger.Init(logrus.WarnLevel)
	appLogger := logger.New("agent_cli", "", "")

	model, err := llm.NewClient(cfg.LLM)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	priceClient := pricing.NewClient(cfg.Pricing.BaseURL, cfg.Pricing.APIKey,
		time.Duration(cfg.Pricing.TimeoutSeconds)*time.Second)
	priceService := pricing.NewService(priceClient, pricing.NewMemoryCache(),
		time.Duration(cfg.Pricing.TTLSeconds)*time.Second)

	chatAgent := agent.New(model, nil, priceService, agent.NewMemoryHistory(), appLogger, agent.Config{
		TopK:         cfg.RAG.TopK,
		HistoryLimit: cfg.RAG.HistoryLimit,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		Asset:        cfg.Pricing.Asset,
		Currency:     cfg.Pricing.Currency,
	})

	const conversationID = 1

	fmt.Println("Enter your prompt. Type exit to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("User:")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}

		result, err := chatAgent.ProcessTurn(context.Background(), conversationID, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println("AGENT:", result.Answer)
	}
}
