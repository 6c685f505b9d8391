// Package mock is an in-memory AmbassadorValidation server used in
// development and tests in place of the real ambassadors service.
package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	pb "github.com/fjod/go_cart/purchases-service/pkg/proto/ambassador"
)

// DefaultPrices are the seeded ambassadors, priced in tiyin.
func DefaultPrices() map[int64]int64 {
	return map[int64]int64{
		1: 50000_00,
		2: 75000_00,
		3: 100000_00,
		4: 25000_00,
		5: 150000_00,
	}
}

type Server struct {
	pb.UnimplementedAmbassadorValidationServer

	mu     sync.RWMutex
	prices map[int64]int64
	log    *slog.Logger
}

func NewServer(prices map[int64]int64, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	table := make(map[int64]int64, len(prices))
	for id, price := range prices {
		table[id] = price
	}
	return &Server{prices: table, log: log}
}

func (s *Server) ValidateAmbassadors(ctx context.Context, req *pb.ValidateRequest) (*pb.ValidateResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := &pb.ValidateResponse{
		ValidAmbassadors: make([]*pb.ValidAmbassador, 0, len(req.GetAmbassadorIds())),
		InvalidIds:       make([]int64, 0),
	}
	for _, id := range req.GetAmbassadorIds() {
		price, ok := s.prices[id]
		if !ok {
			resp.InvalidIds = append(resp.InvalidIds, id)
			continue
		}
		resp.ValidAmbassadors = append(resp.ValidAmbassadors, &pb.ValidAmbassador{
			AmbassadorId: id,
			Price:        price,
		})
	}

	s.log.InfoContext(ctx, "ValidateAmbassadors called",
		"request_ids", req.GetAmbassadorIds(),
		"valid", len(resp.ValidAmbassadors),
		"invalid", resp.InvalidIds)
	return resp, nil
}

// SetPrice adds or reprices an ambassador.
func (s *Server) SetPrice(id, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[id] = price
}

// Delete makes an ambassador unknown to the authority.
func (s *Server) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prices, id)
}
