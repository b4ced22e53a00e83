/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/fmtgate/fmtgate/actionsenv"
	"github.com/fmtgate/fmtgate/apptoken"
	"github.com/fmtgate/fmtgate/gate"
	"github.com/fmtgate/fmtgate/gitrepo"
	"github.com/fmtgate/fmtgate/pyfmt"
	"github.com/fmtgate/fmtgate/service"
	"github.com/fmtgate/fmtgate/statuscheck"
)

type serveConfig struct {
	Port        int    `env:"PORT,default=8080"`
	MetricsPort int    `env:"METRICS_PORT,default=2112"`
	Workers     int    `env:"WORKERS,default=4"`
	QueueDepth  int    `env:"QUEUE_DEPTH,default=64"`
	ServerURL   string `env:"GITHUB_SERVER_URL,default=https://github.com"`

	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// GitHub App credentials. When AppID is zero the service falls back to
	// the personal access token in GITHUB_TOKEN.
	AppID          int64  `env:"GITHUB_APP_ID"`
	InstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	PrivateKeyPath string `env:"GITHUB_PRIVATE_KEY_PATH"`
	Token          string `env:"GITHUB_TOKEN"`

	BlackVersion string `env:"BLACK_VERSION"`
	IsortVersion string `env:"ISORT_VERSION"`
}

func (c *serveConfig) tokenSource() (oauth2.TokenSource, error) {
	if c.AppID != 0 {
		if c.InstallationID == 0 || c.PrivateKeyPath == "" {
			return nil, errors.New("GITHUB_APP_ID requires GITHUB_INSTALLATION_ID and GITHUB_PRIVATE_KEY_PATH")
		}
		return apptoken.NewInstallationSource(c.AppID, c.InstallationID, c.PrivateKeyPath)
	}
	if c.Token == "" {
		return nil, errors.New("either GITHUB_APP_ID or GITHUB_TOKEN must be set")
	}
	return apptoken.Static(c.Token), nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the formatting gate as a webhook service",
		Long: `serve listens for pull_request webhook deliveries and runs the gate for
each one against a pooled clone of the pull request branch, reporting the
outcome through the commit's status checks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	var cfg serveConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	tokenSource, err := cfg.tokenSource()
	if err != nil {
		return err
	}
	client := apptoken.NewClient(ctx, tokenSource)

	manager, err := gitrepo.NewManager(ctx, tokenSource, gitrepo.WithServerURL(cfg.ServerURL))
	if err != nil {
		return fmt.Errorf("creating clone manager: %w", err)
	}

	run := newGateRun(client, manager, &cfg)
	dispatcher, err := service.NewDispatcher(run,
		service.WithWorkers(cfg.Workers),
		service.WithQueueDepth(cfg.QueueDepth))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /webhook", service.NewHandler([]byte(cfg.WebhookSecret), dispatcher))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error {
		clog.InfoContextf(ctx, "Listening for webhooks on port %d", cfg.Port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newGateRun builds the per-event gate run used by the dispatcher workers.
func newGateRun(client *github.Client, manager *gitrepo.Manager, cfg *serveConfig) service.RunFunc {
	return func(ctx context.Context, ev service.Event) error {
		log := clog.FromContext(ctx).With("event", ev.String())
		ctx = clog.WithLogger(ctx, log)

		reporter, err := statuscheck.New(client, ev.Owner, ev.Repo)
		if err != nil {
			return fmt.Errorf("creating status reporter: %w", err)
		}
		if err := reporter.Pending(ctx, ev.HeadSHA, "Checking formatting"); err != nil {
			log.Warnf("Failed to set pending status: %v", err)
		}

		result, err := runGate(ctx, manager, cfg, ev)
		if err != nil {
			if serr := reporter.Failure(ctx, ev.HeadSHA, err.Error()); serr != nil {
				log.Warnf("Failed to set failure status: %v", serr)
			}
			return err
		}

		description := "Formatting is compliant"
		if result.Pushed {
			description = fmt.Sprintf("Pushed formatting fixes (%d file(s))", len(result.Findings))
		}
		if err := reporter.Success(ctx, ev.HeadSHA, description); err != nil {
			log.Warnf("Failed to set success status: %v", err)
		}
		service.RecordRun(result.Pushed)
		return nil
	}
}

func runGate(ctx context.Context, manager *gitrepo.Manager, cfg *serveConfig, ev service.Event) (*gate.Result, error) {
	lease, err := manager.Lease(ctx, gitrepo.Target{
		Owner:  ev.Owner,
		Repo:   ev.Repo,
		Branch: ev.Branch,
	})
	if err != nil {
		return nil, fmt.Errorf("leasing clone: %w", err)
	}
	defer func() {
		if err := lease.Return(ctx); err != nil {
			clog.FromContext(ctx).Warnf("Failed to return clone: %v", err)
		}
	}()

	id := gitrepo.Identity{
		Name:  ev.Actor,
		Email: actionsenv.NoReplyEmail(ev.Actor, cfg.ServerURL),
	}
	runner := pyfmt.NewRunner(pyfmt.WithVersions(cfg.BlackVersion, cfg.IsortVersion))
	g, err := gate.New(lease.WorkingTree(), runner,
		gate.WithInstall(),
		gate.WithPublisher(func(ctx context.Context, message string) (string, error) {
			return lease.CommitAndPush(ctx, id, message)
		}))
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}
