package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"cafe-orders/internal/order"
	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/xpkg/logger"
)

func main() {
	mylogger, err := logger.New("DEBUG")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	mylogger.Action("cafe_system_started").Info("Successfully started")

	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: order-service")

	// Only parse the first few args for `--mode`, the rest go to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("cafe_system_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	remainingArgs := args[len(modeArgs):]

	ctx := context.Background()
	switch *mode {
	case "order-service", "os", "":
		l := mylogger.With("service", "order-service")
		l.Action("order_service_started").Info("Successfully started")
		if err := order.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("order_service_failed").Error("Error in order-service", err)
			if !errors.Is(err, core.ErrHelp) {
				log.Fatalf("failed to execute order-service: %s", err)
			}
		}
		l.Action("order_service_completed").Info("Successfully completed")

	default:
		mylogger.Action("cafe_system_failed").Error("Failed to start cafe system", fmt.Errorf("unknown service: %s", *mode))
		help(fs)
	}
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./cafe --mode=order-service --port=3000 --max-quantity=100")
}
