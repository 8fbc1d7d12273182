package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/testpulse/testpulse-mcp/internal/common"
)

// APIConfig holds the TestPulse analytics API connection settings.
type APIConfig struct {
	URL       string `toml:"url"`
	Key       string `toml:"key"`
	BasePath  string `toml:"base_path"`
	ProjectID string `toml:"project_id"`
	Timeout   string `toml:"timeout"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// Config holds all testpulse-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	API     APIConfig            `toml:"api"`
	Logging common.LoggingConfig `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
// The base path defaults to "/tests"; older backends mount the same routes
// under "/api/tests", so it stays configurable rather than hard-coded.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "TestPulse-MCP",
			Port: "4310",
		},
		API: APIConfig{
			BasePath: "/tests",
			Timeout:  "25s",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/testpulse-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	// Apply environment overrides
	if url := os.Getenv("TESTPULSE_API_URL"); url != "" {
		cfg.API.URL = url
	}
	if key := os.Getenv("TESTPULSE_API_KEY"); key != "" {
		cfg.API.Key = key
	}
	if pid := os.Getenv("TESTPULSE_PROJECT_ID"); pid != "" {
		cfg.API.ProjectID = pid
	}
	if bp := os.Getenv("TESTPULSE_BASE_PATH"); bp != "" {
		cfg.API.BasePath = bp
	}
	if port := os.Getenv("TESTPULSE_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("TESTPULSE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg
}

// validateConfig checks settings that make the proxy unusable if wrong.
// A missing API URL is a startup failure, not a per-call one.
func validateConfig(cfg Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required (set it in the config file or via TESTPULSE_API_URL)")
	}
	return nil
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "testpulse-mcp.toml", "Path to config file")
	flag.Parse()

	cfg := loadConfig(*configFile)
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(cfg.Logging)

	proxy := NewAPIProxy(cfg.API, logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	registerTools(mcpServer, proxy)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", port)
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
