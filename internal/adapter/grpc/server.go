package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/usecase/portfolio"
	"github.com/gonsam85/assets/internal/usecase/quote"
	"github.com/gonsam85/assets/internal/usecase/settings"
	"github.com/gonsam85/assets/internal/usecase/valuation"
)

// Server implements the AssetService gRPC server
type Server struct {
	PortfolioService *portfolio.PortfolioService
	QuoteService     *quote.QuoteService
	ValuationService *valuation.ValuationService
	SettingsService  *settings.SettingsService
}

// NewServer creates a new gRPC server instance
func NewServer(
	portfolioService *portfolio.PortfolioService,
	quoteService *quote.QuoteService,
	valuationService *valuation.ValuationService,
	settingsService *settings.SettingsService,
) *Server {
	return &Server{
		PortfolioService: portfolioService,
		QuoteService:     quoteService,
		ValuationService: valuationService,
		SettingsService:  settingsService,
	}
}

// ListAssets handles the ListAssets RPC
// An optional "type" field filters the list.
func (s *Server) ListAssets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var assets []domain.Asset
	if raw := stringField(req, "type"); raw != "" {
		assetType, err := domain.ParseAssetType(raw)
		if err != nil {
			return nil, mapError(err)
		}
		assets = s.PortfolioService.ByType(assetType)
	} else {
		assets = s.PortfolioService.Assets()
	}

	list := make([]any, 0, len(assets))
	for _, a := range assets {
		list = append(list, assetToMap(a))
	}

	return newResponse(map[string]any{
		"assets":       list,
		"bookNetWorth": s.PortfolioService.NetWorth().String(),
	})
}

// AddAsset handles the AddAsset RPC
func (s *Server) AddAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := structToEntryInput(req)
	if err != nil {
		return nil, mapError(err)
	}

	// USD entries are converted with the last known rate
	candidate, err := portfolio.BuildCandidate(input, s.ValuationService.FXRate())
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.PortfolioService.Add(ctx, candidate)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{
		"asset":  assetToMap(result.Asset),
		"merged": result.Merged,
	})
}

// UpdateAsset handles the UpdateAsset RPC
func (s *Server) UpdateAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	asset, err := structToAsset(req)
	if err != nil {
		return nil, mapError(err)
	}

	if err := s.PortfolioService.Update(ctx, asset); err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{"asset": assetToMap(asset)})
}

// RemoveAsset handles the RemoveAsset RPC
func (s *Server) RemoveAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, mapError(err)
	}

	if err := s.PortfolioService.Remove(ctx, id); err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{"id": id.String()})
}

// GetQuote handles the GetQuote RPC
func (s *Server) GetQuote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := s.QuoteService.Single(ctx, stringField(req, "ticker"))
	if err != nil {
		return nil, mapError(err)
	}
	return newResponse(quoteToMap(q))
}

// GetSnapshot handles the GetSnapshot RPC
func (s *Server) GetSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	snap := s.ValuationService.Latest()
	if snap == nil {
		return nil, status.Error(codes.Unavailable, "no valuation published yet")
	}
	return newResponse(snapshotToMap(snap, s.SettingsService.Progress(snap.NetWorth)))
}

// Refresh handles the Refresh RPC
// The returned snapshot is the one computed by this call.
func (s *Server) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	snap, err := s.ValuationService.Refresh(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return newResponse(snapshotToMap(snap, s.SettingsService.Progress(snap.NetWorth)))
}

func newResponse(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrAssetNotFound), errors.Is(err, domain.ErrQuoteNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrSourceUnavailable):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
