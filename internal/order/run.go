package order

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"cafe-orders/internal/order/api/http"
	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/xpkg/config"
	"cafe-orders/internal/xpkg/logger"

	"golang.org/x/sync/errgroup"
)

type params struct {
	orderParams *core.OrderParams
	configPath  string
	cfg         *config.Config
}

// Execute starts the cafe order service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validated params")

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.orderParams, mylog)

	g, gctx := errgroup.WithContext(newCtx)
	g.Go(func() error {
		return server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mylog.Action("order_service_failed").Error("Server failed unexpectedly", err)
		return err
	}

	mylog.Action("server_stopped").Info("Server exited normally")
	return nil
}

// parseParams parses params from the terminal.
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("order-service", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	port := fs.Int("port", 3000, "Port to run the order service")
	maxQuantity := fs.Int("max-quantity", core.DefaultMaxQuantity, "Max total item quantity per order")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		orderParams: &core.OrderParams{
			Port:        *port,
			MaxQuantity: *maxQuantity,
		},
		configPath: *configPath,
	}, nil
}

// validateParams validates params and loads the config.
func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	orderParams := params.orderParams
	if orderParams.Port <= 0 || orderParams.Port >= 65536 {
		return fmt.Errorf("port must be in [0: 65,535]: %d", orderParams.Port)
	}

	if orderParams.MaxQuantity <= 0 {
		return fmt.Errorf("max quantity per order must be positive: %d", orderParams.MaxQuantity)
	}

	return nil
}
