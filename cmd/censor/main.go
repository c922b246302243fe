package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/BotWall/CensorGate/pkg/censor"
	"github.com/BotWall/CensorGate/pkg/config"
	"github.com/BotWall/CensorGate/pkg/filter"
)

func main() {
	direction := flag.String("direction", "input", "which hook to run: input or output")
	configPath := flag.String("config", "./config", "directory containing config.yaml")
	flag.Parse()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := logrus.New()

	if err := config.Load(*configPath); err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}
	cfg := config.GetConfig()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid config")
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.WithError(err).Fatal("failed to read stdin")
		}
		text = strings.TrimSpace(string(data))
	}

	signer := censor.NewSigner(cfg.Censor.AccessKeyID, cfg.Censor.AccessKeySecret)
	client := censor.NewClient(
		cfg.Censor.Endpoint,
		signer,
		logger,
		censor.WithHTTPClient(&http.Client{Timeout: cfg.Censor.RequestTimeout}),
	)
	checker := censor.NewCensor(client, logger)

	hook := filter.NewCensorFilter(checker, filter.Settings{
		InputEnabled:    cfg.Filter.InputEnabled,
		OutputEnabled:   cfg.Filter.OutputEnabled,
		InputRejection:  cfg.Filter.InputRejection,
		OutputRejection: cfg.Filter.OutputRejection,
	}, logger)

	ctx := context.Background()
	var decision filter.Decision
	switch *direction {
	case "input":
		decision = hook.OnIncomingText(ctx, text)
	case "output":
		decision = hook.OnModelOutput(ctx, text)
	default:
		logger.Fatalf("unknown direction %q, expected input or output", *direction)
	}

	if decision.Allowed {
		fmt.Println("allowed")
		return
	}
	fmt.Println(decision.Replacement)
	os.Exit(1)
}
