package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_cart/purchases-service/internal/ambassador/mock"
	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	pb "github.com/fjod/go_cart/purchases-service/pkg/proto/ambassador"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	grpcPort := getEnv("MOCK_GRPC_PORT", "50051")

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", grpcPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	pb.RegisterAmbassadorValidationServer(grpcServer, mock.NewServer(mock.DefaultPrices(), logger.New("ambassador-mock", true)))

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	go func() {
		log.Printf("Ambassador mock listening on port %s", grpcPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down ambassador mock...")
	grpcServer.GracefulStop()
	log.Println("Ambassador mock stopped")
}
