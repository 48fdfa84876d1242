package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohunvora/twitter-feedback/internal/fetch"
	"github.com/rohunvora/twitter-feedback/internal/server"
)

var (
	dashboardAddr string
	dashboardOpen bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [tweet_url_or_id...]",
	Short: "Serve a local feedback dashboard",
	Long:  "Serves a local dashboard over the feedback store. Tracked posts come from the arguments, or from the dashboard.posts config list when none are given.",
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "addr", "", "listen address (default from config)")
	dashboardCmd.Flags().BoolVar(&dashboardOpen, "open", false, "open the dashboard in the default browser")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	refs := args
	if len(refs) == 0 {
		refs = cfg.Dashboard.Posts
	}
	if len(refs) == 0 {
		return fmt.Errorf("no posts to track: pass tweet URLs/IDs or set dashboard.posts in the config")
	}

	posts := make([]string, len(refs))
	for i, ref := range refs {
		id, err := fetch.ResolveTweetID(ref)
		if err != nil {
			return err
		}
		posts[i] = id
	}

	addr := dashboardAddr
	if addr == "" {
		addr = cfg.Dashboard.Addr
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	srv, err := server.New(st, posts, addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if dashboardOpen {
		go func() {
			time.Sleep(300 * time.Millisecond)
			if err := browser.OpenURL("http://" + addr); err != nil {
				log.Warnf("could not open browser: %v", err)
			}
		}()
	}

	return srv.Run(ctx)
}
