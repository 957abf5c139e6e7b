package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/bestbytes/blog-mcp/config"
	"github.com/bestbytes/blog-mcp/contentful"
	blogmcp "github.com/bestbytes/blog-mcp/mcp"
	"github.com/bestbytes/blog-mcp/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func main() {
	// Define command line flags
	stdioMode := flag.Bool("stdio", true, "Run in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address (e.g., ':8080'); empty falls back to the configured address")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	endpoint := cfg.Contentful.Endpoint
	if endpoint == "" {
		endpoint = contentful.EndpointURL(cfg.Contentful.SpaceID, cfg.Contentful.Environment)
	}
	executor := contentful.NewClient(endpoint, cfg.Contentful.Token, http.DefaultClient)
	serviceInstance := service.NewService(executor)

	// Create MCP server with the blog tools
	s := blogmcp.NewServer(serviceInstance)

	if *httpAddr != "" || !*stdioMode {
		addr := cfg.Server.Address
		if *httpAddr != "" {
			addr = *httpAddr
		}

		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
		defer logger.Sync()

		sseConfig := &blogmcp.SSEServerConfig{
			KeepaliveInterval: cfg.SSE.KeepaliveInterval,
			BufferSize:        cfg.SSE.BufferSize,
			ClientTimeout:     cfg.SSE.ClientTimeout,
		}

		// Start the HTTP server with MCP and SSE endpoints
		log.Printf("Starting MCP server on HTTP address: %s", addr)
		httpServer := blogmcp.NewMcpHTTPSSEServer(logger, s, serviceInstance, cfg.Server.Endpoint, sseConfig)
		if err := http.ListenAndServe(addr, httpServer); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}
	// Start the stdio server
	log.Println("Starting MCP server in stdio mode...")
	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}
