package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/server"
)

var (
	serveTransport string
	servePort      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Expose duplicate detection, related-issue linking, label
suggestion, and enrichment as MCP tools over stdio or HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := server.New(eng)

		switch serveTransport {
		case "stdio":
			log.Println("triage MCP server starting (stdio)")
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		case "http":
			addr := ":" + servePort
			handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
				return srv
			}, nil)
			log.Printf("triage MCP server listening on %s", addr)
			return http.ListenAndServe(addr, handler)
		default:
			return fmt.Errorf("unknown transport: %s (use stdio or http)", serveTransport)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "Transport mode: stdio or http")
	serveCmd.Flags().StringVar(&servePort, "port", "8081", "HTTP port (only used with --transport http)")
	rootCmd.AddCommand(serveCmd)
}
