// cognitiveos is the reference CLI front-end: read a line from standard
// input, hand it to Orchestrator.HandleUserMessage, print the result.
// Out of core scope per the external-interfaces contract, but shipped so
// the engine is actually runnable end to end.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/agents"
	"github.com/ludwigkubler/cognitive-os/pkg/config"
	"github.com/ludwigkubler/cognitive-os/pkg/events"
	"github.com/ludwigkubler/cognitive-os/pkg/governance"
	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/orchestrator"
	"github.com/ludwigkubler/cognitive-os/pkg/planner"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
	"github.com/ludwigkubler/cognitive-os/pkg/store/memstore"
	"github.com/ludwigkubler/cognitive-os/pkg/store/postgres"
)

// exitTokens end the REPL, matching the spec's reference CLI contract
// exactly (case-insensitive, trimmed).
var exitTokens = map[string]bool{
	"exit": true, "quit": true, "esci": true, "fine": true,
	"stop": true, "q": true, "x": true, "end": true, "terminate": true,
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config/system.yaml"
}

func main() {
	path := flag.String("config", configPath(), "path to system.yaml")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	setupLogging(cfg.LogLevel)

	ctx := context.Background()

	s, closeStore := openStore(ctx, cfg)
	defer closeStore()

	llm := selectLLMProvider(cfg)

	registry := agent.NewRegistry()
	if err := registry.Discover(func() []agent.Named { return agents.BuiltinAgents(llm) }); err != nil {
		log.Fatalf("registering builtin agents: %v", err)
	}
	if err := registry.Discover(governance.BuiltinAgents); err != nil {
		log.Fatalf("registering governance agents: %v", err)
	}

	p := planner.New(registry)

	orch := orchestrator.New(registry, p, s, llm)
	orch.MaxTasksPerTurn = cfg.Orchestrator.MaxTasksPerTurn
	if cfg.HTTP.Enabled {
		orch.Events = events.NewPublisher(s, 5*time.Second)
	}

	if cfg.HTTP.Enabled {
		go serveHTTP(cfg, orch)
	}

	runREPL(ctx, orch)
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// openStore returns a memstore.Store when no database host is configured
// (the reference CLI's offline mode), otherwise a migrated Postgres store.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func()) {
	if cfg.Database.Host == "" {
		slog.Info("no database configured, using in-memory store")
		return memstore.New(), func() {}
	}

	pgCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	}
	s, err := postgres.Open(ctx, pgCfg)
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}
	slog.Info("connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.Database)
	return s, s.Close
}

// selectLLMProvider returns the EchoProvider when no provider URL is
// configured, otherwise an HTTPProvider pointed at it with an optional
// bearer token read from cfg.LLM.AuthEnv.
func selectLLMProvider(cfg *config.Config) llmprovider.Provider {
	if cfg.LLM.ProviderURL == "" {
		slog.Info("no LLM_PROVIDER_URL configured, using echo provider")
		return llmprovider.EchoProvider{}
	}
	p := llmprovider.NewHTTPProvider(cfg.LLM.ProviderURL)
	if cfg.LLM.AuthEnv != "" {
		if token := os.Getenv(cfg.LLM.AuthEnv); token != "" {
			p.AuthHeader = "Bearer " + token
		}
	}
	slog.Info("using HTTP LLM provider", "url", cfg.LLM.ProviderURL)
	return p
}

// serveHTTP runs the optional status/health surface. It never blocks
// turns — main always starts the REPL regardless of whether this
// goroutine is running.
func serveHTTP(cfg *config.Config, orch *orchestrator.Orchestrator) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "healthy"}
		if orch.Events != nil && orch.Events.Manager != nil {
			status["active_connections"] = orch.Events.Manager.ActiveConnections()
		}
		c.JSON(http.StatusOK, status)
	})
	slog.Info("http status surface listening", "addr", cfg.HTTP.Addr)
	if err := router.Run(cfg.HTTP.Addr); err != nil {
		slog.Error("http server stopped", "error", err)
	}
}

// runREPL reads lines from stdin until an exit token or EOF, dispatching
// each non-empty line to the orchestrator as one conversation turn.
func runREPL(ctx context.Context, orch *orchestrator.Orchestrator) {
	conversationID := ids.New()
	userID := "cli-user"

	fmt.Println("cognitiveos — type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitTokens[strings.ToLower(line)] {
			return
		}

		reply, err := orch.HandleUserMessage(ctx, conversationID, userID, line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
}
