package grpc

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/balance"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitcalc"
)

// Request field names. Money travels as decimal strings ("12.34"),
// IDs as canonical UUID strings and timestamps as RFC 3339 strings.
const (
	fieldTotalAmount    = "total_amount"
	fieldSplitType      = "split_type"
	fieldParticipantIDs = "participant_ids"
	fieldAmounts        = "amounts"
	fieldPercentages    = "percentages"
	fieldShares         = "shares"
	fieldAdjustments    = "adjustments"
	fieldTitle          = "title"
	fieldCategoryID     = "category_id"
	fieldDate           = "date"
	fieldNotes          = "notes"
	fieldGroupID        = "group_id"
	fieldPayerID        = "payer_id"
	fieldID             = "id"
	fieldLimit          = "limit"
	fieldOffset         = "offset"
)

// request wraps the fields of an incoming Struct with typed accessors.
// Every accessor returns an InvalidArgument status on malformed input.
type request struct {
	fields map[string]*structpb.Value
}

func newRequest(in *structpb.Struct) request {
	return request{fields: in.GetFields()}
}

func (r request) has(key string) bool {
	v, ok := r.fields[key]
	if !ok {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (r request) str(key string) (string, error) {
	if !r.has(key) {
		return "", nil
	}
	v, ok := r.fields[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", key)
	}
	return v.StringValue, nil
}

func (r request) money(key string) (domain.Money, error) {
	s, err := r.str(key)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	m, err := domain.ParseMoney(s)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return m, nil
}

func (r request) id(key string) (uuid.UUID, error) {
	s, err := r.str(key)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return id, nil
}

func (r request) optionalUUID(key string) (*uuid.UUID, error) {
	s, err := r.str(key)
	if err != nil || s == "" {
		return nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return &id, nil
}

func (r request) integer(key string) (int, error) {
	if !r.has(key) {
		return 0, nil
	}
	return toInt(key, r.fields[key])
}

func (r request) timestamp(key string) (time.Time, error) {
	s, err := r.str(key)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return decodeTime(key, s)
}

// splitConfig reads the split type, ordered participants and the per-participant
// maps. Map keys are participant UUID strings.
func (r request) splitConfig() (domain.SplitConfig, error) {
	splitType, err := r.str(fieldSplitType)
	if err != nil {
		return domain.SplitConfig{}, err
	}
	cfg := domain.SplitConfig{
		Type:        domain.SplitType(strings.ToUpper(splitType)),
		Amounts:     make(map[uuid.UUID]domain.Money),
		Percentages: make(map[uuid.UUID]decimal.Decimal),
		Shares:      make(map[uuid.UUID]int),
		Adjustments: make(map[uuid.UUID]domain.Money),
	}

	if r.has(fieldParticipantIDs) {
		list, ok := r.fields[fieldParticipantIDs].GetKind().(*structpb.Value_ListValue)
		if !ok {
			return cfg, status.Errorf(codes.InvalidArgument, "%s must be a list", fieldParticipantIDs)
		}
		for _, v := range list.ListValue.GetValues() {
			id, err := uuid.Parse(v.GetStringValue())
			if err != nil {
				return cfg, status.Errorf(codes.InvalidArgument, "invalid %s entry %q: %v", fieldParticipantIDs, v.GetStringValue(), err)
			}
			cfg.ParticipantIDs = append(cfg.ParticipantIDs, id)
		}
	}

	err = r.eachEntry(fieldAmounts, func(id uuid.UUID, v *structpb.Value) error {
		m, err := domain.ParseMoney(v.GetStringValue())
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "invalid amount for %s: %v", id, err)
		}
		cfg.Amounts[id] = m
		return nil
	})
	if err != nil {
		return cfg, err
	}

	err = r.eachEntry(fieldPercentages, func(id uuid.UUID, v *structpb.Value) error {
		d, err := decimal.NewFromString(v.GetStringValue())
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "invalid percentage for %s: %v", id, err)
		}
		cfg.Percentages[id] = d
		return nil
	})
	if err != nil {
		return cfg, err
	}

	err = r.eachEntry(fieldShares, func(id uuid.UUID, v *structpb.Value) error {
		n, err := toInt("shares for "+id.String(), v)
		if err != nil {
			return err
		}
		cfg.Shares[id] = n
		return nil
	})
	if err != nil {
		return cfg, err
	}

	err = r.eachEntry(fieldAdjustments, func(id uuid.UUID, v *structpb.Value) error {
		m, err := domain.ParseMoney(v.GetStringValue())
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "invalid adjustment for %s: %v", id, err)
		}
		cfg.Adjustments[id] = m
		return nil
	})
	return cfg, err
}

func (r request) eachEntry(key string, fn func(uuid.UUID, *structpb.Value) error) error {
	if !r.has(key) {
		return nil
	}
	obj, ok := r.fields[key].GetKind().(*structpb.Value_StructValue)
	if !ok {
		return status.Errorf(codes.InvalidArgument, "%s must be an object keyed by participant ID", key)
	}
	for rawID, v := range obj.StructValue.GetFields() {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return status.Errorf(codes.InvalidArgument, "invalid participant ID %q in %s: %v", rawID, key, err)
		}
		if err := fn(id, v); err != nil {
			return err
		}
	}
	return nil
}

// toInt accepts whole numbers and numeric strings
func toInt(key string, v *structpb.Value) (int, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number", key)
		}
		return int(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(kind.StringValue)
		if err != nil || n > math.MaxInt32 || n < -math.MaxInt32 {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number", key)
		}
		return n, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number", key)
	}
}

// encodeTime renders t using the protobuf JSON mapping of google.protobuf.Timestamp
func encodeTime(t time.Time) string {
	b, err := protojson.Marshal(timestamppb.New(t))
	if err != nil {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return strings.Trim(string(b), `"`)
}

func decodeTime(key, s string) (time.Time, error) {
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal([]byte(strconv.Quote(s)), ts); err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return ts.AsTime(), nil
}

func participantsToValue(participants []domain.SplitParticipant) []any {
	out := make([]any, 0, len(participants))
	for _, p := range participants {
		out = append(out, map[string]any{
			"participant_id": p.ParticipantID.String(),
			"amount":         p.Amount.String(),
		})
	}
	return out
}

func validationToValue(res splitcalc.ValidationResult) map[string]any {
	return map[string]any{
		"is_valid": res.IsValid,
		"error":    res.Error,
	}
}

func splitBillToValue(bill *domain.SplitBill) map[string]any {
	roles := make([]any, 0, len(bill.Participants))
	for _, p := range bill.Roles() {
		roles = append(roles, map[string]any{
			"participant_id": p.ID.String(),
			"role":           string(p.Role),
		})
	}

	v := map[string]any{
		"id":           bill.ID.String(),
		"title":        bill.Title,
		"date":         encodeTime(bill.Date),
		"notes":        bill.Notes,
		"payer_id":     bill.PayerID.String(),
		"total_amount": bill.TotalAmount.String(),
		"split_type":   string(bill.SplitType),
		"participants": participantsToValue(bill.Participants),
		"roles":        roles,
		"created_at":   encodeTime(bill.CreatedAt),
	}
	if bill.CategoryID != nil {
		v["category_id"] = bill.CategoryID.String()
	}
	if bill.GroupID != nil {
		v["group_id"] = bill.GroupID.String()
	}
	return v
}

func groupBalancesToValue(result *balance.GroupBalances) map[string]any {
	balances := make([]any, 0, len(result.Balances))
	for _, b := range result.Balances {
		balances = append(balances, map[string]any{
			"participant_id": b.ParticipantID.String(),
			"total_paid":     b.TotalPaid.String(),
			"total_owed":     b.TotalOwed.String(),
			"net":            b.Net().String(),
		})
	}

	settlements := make([]any, 0, len(result.Settlements))
	for _, s := range result.Settlements {
		settlements = append(settlements, map[string]any{
			"from_participant_id": s.FromParticipantID.String(),
			"to_participant_id":   s.ToParticipantID.String(),
			"amount":              s.Amount.String(),
		})
	}

	return map[string]any{
		"balances":    balances,
		"settlements": settlements,
		"bill_count":  result.BillCount,
	}
}

func newResponse(v map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}
