package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/notify"
	"github.com/gdlpLG/lbcwatch/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		httpHost  string
		httpPort  int
		httpPath  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server.",
		Long: `Launch an MCP server that exposes watches, ads and the AI analysis job
to assistants. Stdio is the default transport.`,
		Example: `
lbcwatch mcp
lbcwatch mcp --transport http --http-port 8081
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			e.watchConfig()

			s := e.session(nil, notify.Nop{})
			defer s.Close()

			path := strings.TrimSpace(httpPath)
			if path == "" {
				path = "/mcp"
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			runner := mcp.Runner{
				Session:          s,
				Name:             "lbcwatch",
				Version:          Version,
				HTTPEndpointPath: path,
			}

			switch strings.ToLower(strings.TrimSpace(transport)) {
			case "", string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
			case string(mcp.TransportHTTP):
				if httpPort < 0 || httpPort > 65535 {
					return fmt.Errorf("invalid http-port %d", httpPort)
				}
				host := strings.TrimSpace(httpHost)
				if host == "" {
					host = "127.0.0.1"
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(httpPort))
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP HTTP server listening on http://%s%s\n", a, path)
				}
			default:
				return fmt.Errorf("unknown transport %q, expected stdio or http", transport)
			}

			return output.HandleError(runner.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport to serve: stdio or http.")
	cmd.Flags().StringVar(&httpHost, "http-host", "127.0.0.1", "Host to bind for the http transport.")
	cmd.Flags().IntVar(&httpPort, "http-port", 8081, "Port to bind for the http transport.")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "Endpoint path for the http transport.")

	topLevel.AddCommand(cmd)
}
