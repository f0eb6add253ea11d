package cmd

import (
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngophulan456hn/alice-assignment/config"
	domainChat "github.com/ngophulan456hn/alice-assignment/domains/chat"
	domainDocument "github.com/ngophulan456hn/alice-assignment/domains/document"
	domainHealth "github.com/ngophulan456hn/alice-assignment/domains/health"
	domainSession "github.com/ngophulan456hn/alice-assignment/domains/session"
	"github.com/ngophulan456hn/alice-assignment/infrastructure/ollama"
	"github.com/ngophulan456hn/alice-assignment/infrastructure/valkey"
	"github.com/ngophulan456hn/alice-assignment/repository"
	"github.com/ngophulan456hn/alice-assignment/usecase"
)

var (
	// Infrastructure
	valkeyClient *valkey.Client
	ollamaClient *ollama.Client

	// Session state
	sessionStore domainSession.ISessionManager

	// Usecases
	chatUsecase     domainChat.IChatUsecase
	documentUsecase domainDocument.IDocumentUsecase
	healthUsecase   domainHealth.IHealthUsecase
)

// Flag overrides; empty means "use config/env value".
var (
	flagPort         string
	flagDebug        bool
	flagStoreAddress string
	flagOllamaURL    string
	flagOllamaModel  string
)

var rootCmd = &cobra.Command{
	Use:   "alice",
	Short: "Session-scoped AI chat gateway",
	Long: `A gateway that proxies chat messages to a locally hosted Ollama server,
augmenting prompts with per-session document context and rolling history
persisted in Valkey with a 24-hour expiry window.`,
}

func init() {
	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8000",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"display debug logs with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagStoreAddress,
		"store-address", "",
		"",
		`session store address --store-address <host:port> | example: --store-address="localhost:6379"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagOllamaURL,
		"ollama-url", "",
		"",
		`inference server base url --ollama-url <url> | example: --ollama-url="http://localhost:11434"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagOllamaModel,
		"ollama-model", "",
		"",
		`inference model name --ollama-model <string> | example: --ollama-model="llama3"`,
	)

	viper.AutomaticEnv()
}

// initApp loads configuration, applies flag overrides and wires the
// dependency graph the handlers consume.
func initApp() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Environment overrides routed through viper, then explicit flags on top.
	if envPort := viper.GetString("app_port"); envPort != "" {
		cfg.App.Port = envPort
	}
	if viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}

	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug {
		cfg.App.Debug = true
	}
	if flagStoreAddress != "" {
		cfg.Store.Address = flagStoreAddress
	}
	if flagOllamaURL != "" {
		cfg.Ollama.BaseURL = flagOllamaURL
	}
	if flagOllamaModel != "" {
		cfg.Ollama.Model = flagOllamaModel
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(cfg.Paths.Storages, 0755); err != nil {
		logrus.Fatalf("Failed to create storage directory: %v", err)
	}

	if cfg.Store.Enabled {
		valkeyClient, err = valkey.NewClient(valkey.Config{
			Address:        cfg.Store.Address,
			Password:       cfg.Store.Password,
			DB:             cfg.Store.DB,
			ConnectTimeout: cfg.Store.ConnectTimeout,
		})
		if err != nil {
			logrus.Fatalf("Failed to connect to session store: %v", err)
		}
		sessionStore = repository.NewValkeySessionStore(valkeyClient, cfg.Store.SessionTTL)
		logrus.Infof("[APP] using valkey session store at %s", cfg.Store.Address)
	} else {
		sessionStore = repository.NewMemorySessionStore(cfg.Store.SessionTTL)
		logrus.Warn("[APP] store disabled, using in-memory sessions (state is lost on restart)")
	}

	ollamaClient = ollama.NewClient(ollama.Config{
		BaseURL:         cfg.Ollama.BaseURL,
		Model:           cfg.Ollama.Model,
		GenerateTimeout: cfg.Ollama.GenerateTimeout,
		HealthTimeout:   cfg.Ollama.HealthTimeout,
	})

	chatUsecase = usecase.NewChatService(sessionStore, ollamaClient)
	documentUsecase = usecase.NewDocumentService(sessionStore)
	healthUsecase = usecase.NewHealthService(sessionStore, ollamaClient)
}

// StopApp releases process-lifetime resources during graceful shutdown.
func StopApp() {
	if valkeyClient != nil {
		valkeyClient.Close()
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
