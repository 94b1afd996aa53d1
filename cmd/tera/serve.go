package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/tera/internal/api"
	"github.com/samcharles93/tera/internal/logger"
	"github.com/samcharles93/tera/internal/model"
	"github.com/samcharles93/tera/internal/rag"
	"github.com/samcharles93/tera/internal/registry"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the answer REST API",
		Flags: append(append(modelFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr)
			log := newLogger()
			ctx = logger.WithContext(ctx, log)

			if modelRef == "" {
				return cli.Exit("error: --model is required (a registry name or model directory)", 1)
			}
			mgr, err := registry.NewManager(registry.DefaultBaseDir())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open registry: %v", err), 1)
			}
			dir, err := mgr.Resolve(modelRef)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: resolve model %q: %v", modelRef, err), 1)
			}

			// The handle loads lazily on the first request and is shared by
			// every request after that.
			provider := model.NewProvider(func(context.Context) (*model.Handle, error) {
				return model.Load(dir)
			})
			service := rag.NewService(provider, rag.WithLogger(log))
			server := api.NewServer(service)

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "model", dir)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
