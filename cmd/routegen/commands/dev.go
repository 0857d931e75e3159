package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abdul-hamid-achik/routegen/pkg/devserver"
	"github.com/abdul-hamid-achik/routegen/pkg/scanner"
	"github.com/abdul-hamid-achik/routegen/pkg/watcher"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Regenerate routes on change and serve them",
	Long: `Watch the pages directory, regenerate the route module whenever a page
changes and serve the latest result.

Endpoints:
  /routes.js     The generated module
  /routes.json   The resolved route tree
  /ws            WebSocket notifications ({"type":"routes"} or {"type":"error"})
  /metrics       Prometheus metrics
  /healthz       Health check

Example:
  routegen dev
  routegen dev --addr :4000 --open`,
	Run: runDev,
}

var (
	devAddr string
	devOpen bool
)

func init() {
	devCmd.Flags().StringVarP(&devAddr, "addr", "a", "", "Address to listen on (default: dev.addr from config)")
	devCmd.Flags().BoolVar(&devOpen, "open", false, "Open the route tree in the browser")
}

func runDev(cmd *cobra.Command, args []string) {
	cfg, _, err := loadProject()
	if err != nil {
		fail(err)
	}
	if devAddr != "" {
		cfg.Dev.Addr = devAddr
	}

	log := newLogger()

	if !jsonOutput {
		fmt.Fprintf(stdout, "\n  %s Development Server\n\n", cyan("routegen"))
	}

	srv, err := devserver.New(cfg, log)
	if err != nil {
		fail(err)
	}

	// A broken page must not stop the watcher; the error is served instead.
	if _, err := srv.Regenerate(); err != nil && !jsonOutput {
		fmt.Fprintf(stdout, "  %s Fix the error above, routes regenerate on save\n", yellow("!"))
	}

	sc := scanner.NewScanner(cfg.Pages)
	sc.SetPattern(cfg.Pattern)
	sc.SetIgnore(cfg.Ignore)

	w := watcher.New(cfg.Pages, sc.Match, srv.HandleChanges)
	w.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := serverURL(cfg.Dev.Addr)
	if jsonOutput {
		printJSON(DevOutput{Status: "running", URL: url, Pages: cfg.Pages})
	} else {
		fmt.Fprintf(stdout, "  %s Watching %s\n", green("✓"), relPath(cfg.Pages))
		fmt.Fprintf(stdout, "\n  ➜ Routes:  %s\n", cyan(url+"/routes.json"))
		fmt.Fprintf(stdout, "  ➜ Module:  %s\n\n", cyan(url+"/routes.js"))
	}

	if devOpen {
		if err := browser.OpenURL(url + "/routes.json"); err != nil {
			log.Warn("could not open browser", "error", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	g.Go(func() error { return w.Run(ctx) })

	if err := g.Wait(); err != nil {
		fail(err)
	}

	if jsonOutput {
		printJSON(DevOutput{Status: "stopped"})
	} else {
		fmt.Fprintf(stdout, "\n  %s Shutting down...\n", yellow("→"))
	}
}

// serverURL turns a listen address into a URL a browser can open.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		addr = "localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}
