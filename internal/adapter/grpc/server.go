package grpc

import (
	"bytes"
	"context"
	"errors"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/assetbalance-backend/internal/domain"
	"github.com/simaogato/assetbalance-backend/internal/usecase/ingestion"
	"github.com/simaogato/assetbalance-backend/internal/usecase/portfolio"
)

var (
	_ Ingester    = (*ingestion.IngestionService)(nil)
	_ AssetViewer = (*portfolio.PortfolioService)(nil)
)

// Ingester replaces the ledger from a raw export
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader) (*domain.IngestionResult, error)
}

// AssetViewer renders the current rebalancing plan
type AssetViewer interface {
	ViewAssets(ctx context.Context) ([]domain.AssetView, error)
}

// Server implements the PortfolioService gRPC server
type Server struct {
	IngestionService Ingester
	PortfolioService AssetViewer
}

// NewServer creates a new gRPC server instance
func NewServer(ingestionService Ingester, portfolioService AssetViewer) *Server {
	return &Server{
		IngestionService: ingestionService,
		PortfolioService: portfolioService,
	}
}

// ViewAssets handles the ViewAssets RPC
func (s *Server) ViewAssets(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	views, err := s.PortfolioService.ViewAssets(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	values := make([]*structpb.Value, 0, len(views))
	for _, view := range views {
		row, err := structpb.NewStruct(map[string]interface{}{
			"asset_name":    view.AssetName,
			"amount":        view.Amount,
			"ratio":         view.Ratio,
			"target_amount": view.TargetAmount,
			"target_ratio":  view.TargetRatio,
		})
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to encode asset view: %v", err)
		}
		values = append(values, structpb.NewStructValue(row))
	}

	return &structpb.ListValue{Values: values}, nil
}

// UploadLedger handles the UploadLedger RPC
func (s *Server) UploadLedger(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	result, err := s.IngestionService.Ingest(ctx, bytes.NewReader(req.GetValue()))
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"batch_id": result.BatchID.String(),
		"encoding": result.Encoding,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode upload result: %v", err)
	}

	return resp, nil
}

// mapError maps domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var unresolved *domain.UnresolvedInstrumentError
	var decodeErr *domain.DecodeError

	switch {
	case errors.As(err, &unresolved), errors.As(err, &decodeErr), errors.Is(err, domain.ErrEmptyLedger):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	default:
		// Default to Internal error for unknown errors
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
