package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/balance"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitbill"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitcalc"
	"github.com/simaogato/splitflow-backend/internal/usecase/wizard"
)

// Server implements the SplitBillService gRPC server
type Server struct {
	SplitBillService *splitbill.SplitBillService
	BalanceService   *balance.BalanceService
}

var _ SplitBillServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(splitBillService *splitbill.SplitBillService, balanceService *balance.BalanceService) *Server {
	return &Server{
		SplitBillService: splitBillService,
		BalanceService:   balanceService,
	}
}

// CalculateSplit handles the CalculateSplit RPC.
// It returns the live preview: the allocation plus its validation result.
// An invalid configuration is reported in the response, not as an error.
func (s *Server) CalculateSplit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	total, err := req.money(fieldTotalAmount)
	if err != nil {
		return nil, err
	}

	cfg, err := req.splitConfig()
	if err != nil {
		return nil, err
	}

	preview := s.SplitBillService.Preview(total, cfg)

	return newResponse(map[string]any{
		"total_amount": total.String(),
		"split_type":   string(cfg.Type),
		"participants": participantsToValue(preview.Participants),
		"allocated":    preview.Allocated.String(),
		"validation":   validationToValue(preview.Validation),
	})
}

// ValidateSplit handles the ValidateSplit RPC
func (s *Server) ValidateSplit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	total, err := req.money(fieldTotalAmount)
	if err != nil {
		return nil, err
	}

	cfg, err := req.splitConfig()
	if err != nil {
		return nil, err
	}

	return newResponse(validationToValue(splitcalc.ValidateSplit(total, cfg)))
}

// CreateSplitBill handles the CreateSplitBill RPC
func (s *Server) CreateSplitBill(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	title, err := req.str(fieldTitle)
	if err != nil {
		return nil, err
	}
	notes, err := req.str(fieldNotes)
	if err != nil {
		return nil, err
	}
	total, err := req.money(fieldTotalAmount)
	if err != nil {
		return nil, err
	}
	payerID, err := req.id(fieldPayerID)
	if err != nil {
		return nil, err
	}
	categoryID, err := req.optionalUUID(fieldCategoryID)
	if err != nil {
		return nil, err
	}
	groupID, err := req.optionalUUID(fieldGroupID)
	if err != nil {
		return nil, err
	}
	date, err := req.timestamp(fieldDate)
	if err != nil {
		return nil, err
	}
	cfg, err := req.splitConfig()
	if err != nil {
		return nil, err
	}

	input := splitbill.CreateSplitBillInput{
		Details: wizard.Details{
			Title:       title,
			TotalAmount: total,
			CategoryID:  categoryID,
			Date:        date,
			Notes:       notes,
			GroupID:     groupID,
		},
		PayerID: payerID,
		Config:  cfg,
	}

	bill, err := s.SplitBillService.CreateSplitBill(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{
		"split_bill": splitBillToValue(bill),
	})
}

// GetSplitBill handles the GetSplitBill RPC
func (s *Server) GetSplitBill(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := newRequest(in).id(fieldID)
	if err != nil {
		return nil, err
	}

	bill, err := s.SplitBillService.GetSplitBill(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{
		"split_bill": splitBillToValue(bill),
	})
}

// ListSplitBills handles the ListSplitBills RPC
func (s *Server) ListSplitBills(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	limit, err := req.integer(fieldLimit)
	if err != nil {
		return nil, err
	}
	offset, err := req.integer(fieldOffset)
	if err != nil {
		return nil, err
	}
	groupID, err := req.optionalUUID(fieldGroupID)
	if err != nil {
		return nil, err
	}

	result, err := s.SplitBillService.ListSplitBills(ctx, limit, offset, groupID)
	if err != nil {
		return nil, mapError(err)
	}

	bills := make([]any, 0, len(result.Bills))
	for _, bill := range result.Bills {
		bills = append(bills, splitBillToValue(bill))
	}

	return newResponse(map[string]any{
		"split_bills": bills,
		"total_count": result.Total,
	})
}

// GetGroupBalances handles the GetGroupBalances RPC
func (s *Server) GetGroupBalances(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	groupID, err := newRequest(in).optionalUUID(fieldGroupID)
	if err != nil {
		return nil, err
	}

	result, err := s.BalanceService.GetGroupBalances(ctx, groupID)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(groupBalancesToValue(result))
}

// ListCategories handles the ListCategories RPC
func (s *Server) ListCategories(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	categories, err := s.SplitBillService.ListCategories(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]any, 0, len(categories))
	for _, c := range categories {
		out = append(out, map[string]any{
			"id":   c.ID.String(),
			"name": c.Name,
		})
	}

	return newResponse(map[string]any{
		"categories": out,
	})
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, splitcalc.ErrInvalidSplit),
		errors.Is(err, splitcalc.ErrNoParticipants),
		errors.Is(err, splitcalc.ErrNoShares),
		errors.Is(err, splitcalc.ErrUnknownSplitType),
		errors.Is(err, domain.ErrInvalidSplitBill),
		errors.Is(err, domain.ErrInvalidMoney),
		errors.Is(err, splitbill.ErrUnknownCategory),
		errors.Is(err, splitbill.ErrInvalidPage),
		errors.Is(err, wizard.ErrNotReviewed):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
