package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/Belphemur/MediaFinder/internal/config"
	grpcserver "github.com/Belphemur/MediaFinder/internal/grpc"
)

func newServeCommand(loadConfig configSource) *cobra.Command {
	var address string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose catalog search and image listing over gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := config.GetLogger()
			if !cmd.Flags().Changed("address") {
				address = cfg.Server.Address
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			defer a.startMetrics()()

			grpcServer := grpcserver.NewGRPCServer(a.catalog, cfg.PreviewPosterCount)

			listenAddr := net.JoinHostPort(address, strconv.Itoa(port))
			listener, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listenAddr, err)
			}

			go func() {
				<-cmd.Context().Done()
				logger.Info().Msg("Shutting down gRPC server")
				grpcServer.Shutdown()
			}()

			logger.Info().Str("address", listener.Addr().String()).Msg("Starting gRPC server")
			if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			logger.Info().Msg("Server stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "localhost", "Listen address, defaults to server.address")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port, defaults to server.port")
	return cmd
}
