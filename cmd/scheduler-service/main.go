package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/napolitain/solver-aoe/internal/adapters/grpcsched"
	"github.com/napolitain/solver-aoe/internal/config"
	"github.com/napolitain/solver-aoe/internal/solver/cpsched"
)

var (
	configFile string
	listen     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "scheduler-service",
		Short:        "Serve the in-process scheduling solver over gRPC",
		SilenceUsage: true,
		RunE:         serve,
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides scheduler.listen)")

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Scheduler.Listen = listen
	}
	logger := config.NewLogger(cfg.Logging)

	lis, err := net.Listen("tcp", cfg.Scheduler.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer()
	grpcsched.Register(s, grpcsched.NewServer(cpsched.New(logger), logger))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", lis.Addr().String(), "service", grpcsched.ServiceName)
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
