package splitcalc

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

func newIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func amountsOf(participants []domain.SplitParticipant) []domain.Money {
	amounts := make([]domain.Money, len(participants))
	for i, p := range participants {
		amounts[i] = p.Amount
	}
	return amounts
}

func sumOf(participants []domain.SplitParticipant) domain.Money {
	var total domain.Money
	for _, p := range participants {
		total += p.Amount
	}
	return total
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateEqualSplit_TenDollarsThreeWays(t *testing.T) {
	// $10.00 / 3 people -> $3.34, $3.33, $3.33 with the extra cent on the first participant
	ids := newIDs(3)

	result, err := CalculateEqualSplit(1000, ids)

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, []domain.Money{334, 333, 333}, amountsOf(result))
	for i, p := range result {
		assert.Equal(t, ids[i], p.ParticipantID, "input order must be preserved")
	}
	assert.Equal(t, domain.Money(1000), sumOf(result))
}

func TestCalculateEqualSplit(t *testing.T) {
	tests := []struct {
		name    string
		total   domain.Money
		count   int
		want    []domain.Money
		wantErr error
	}{
		{name: "single participant gets everything", total: 4599, count: 1, want: []domain.Money{4599}},
		{name: "even division", total: 900, count: 3, want: []domain.Money{300, 300, 300}},
		{name: "remainder of two cents", total: 100, count: 7, want: []domain.Money{15, 15, 14, 14, 14, 14, 14}},
		{name: "zero total", total: 0, count: 2, want: []domain.Money{0, 0}},
		{name: "fewer cents than participants", total: 2, count: 3, want: []domain.Money{1, 1, 0}},
		{name: "no participants", total: 1000, count: 0, wantErr: ErrNoParticipants},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateEqualSplit(tt.total, newIDs(tt.count))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amountsOf(result))
			assert.Equal(t, tt.total, sumOf(result))
		})
	}
}

func TestCalculateExactAmounts_OmitsParticipantsWithoutEntry(t *testing.T) {
	ids := newIDs(3)
	amounts := map[uuid.UUID]domain.Money{
		ids[0]: 1250,
		ids[2]: 750,
	}

	result := CalculateExactAmounts(ids, amounts)

	require.Len(t, result, 2)
	assert.Equal(t, ids[0], result[0].ParticipantID)
	assert.Equal(t, domain.Money(1250), result[0].Amount)
	assert.Equal(t, ids[2], result[1].ParticipantID)
	assert.Equal(t, domain.Money(750), result[1].Amount)
}

func TestCalculateExactAmounts_DoesNotReconcile(t *testing.T) {
	ids := newIDs(2)
	amounts := map[uuid.UUID]domain.Money{ids[0]: 100, ids[1]: 100}

	result := CalculateExactAmounts(ids, amounts)

	// No redistribution: a mismatch against any total is left for ValidateSplit
	assert.Equal(t, []domain.Money{100, 100}, amountsOf(result))
}

func TestCalculatePercentages(t *testing.T) {
	ids := newIDs(3)

	tests := []struct {
		name        string
		total       domain.Money
		percentages map[uuid.UUID]decimal.Decimal
		want        []domain.Money
	}{
		{
			name:  "thirds that already reconcile",
			total: 10000,
			percentages: map[uuid.UUID]decimal.Decimal{
				ids[0]: pct("33.33"), ids[1]: pct("33.33"), ids[2]: pct("33.34"),
			},
			want: []domain.Money{3333, 3333, 3334},
		},
		{
			name:  "rounding drift goes to the first participant",
			total: 1000,
			percentages: map[uuid.UUID]decimal.Decimal{
				ids[0]: pct("33.333"), ids[1]: pct("33.333"), ids[2]: pct("33.334"),
			},
			// 3.3333 -> 3.33, 3.3333 -> 3.33, 3.3334 -> 3.33, one cent left over
			want: []domain.Money{334, 333, 333},
		},
		{
			name:  "half away from zero overshoots and a cent is taken back",
			total: 5,
			percentages: map[uuid.UUID]decimal.Decimal{
				ids[0]: pct("50"), ids[1]: pct("50"),
			},
			// 0.025 rounds to 0.03 twice, 6 cents for a 5 cent bill
			want: []domain.Money{2, 3},
		},
		{
			name:  "single participant at 100 percent",
			total: 1234,
			percentages: map[uuid.UUID]decimal.Decimal{
				ids[1]: pct("100"),
			},
			want: []domain.Money{1234},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculatePercentages(tt.total, ids, tt.percentages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amountsOf(result))
			assert.Equal(t, tt.total, sumOf(result))
		})
	}
}

func assertReconciles(t *testing.T, total domain.Money, participants []domain.SplitParticipant) {
	t.Helper()
	for _, p := range participants {
		assert.GreaterOrEqual(t, p.Amount, domain.Money(0), "allocation for %s must not be negative", p.ParticipantID)
	}
	assert.Equal(t, total, sumOf(participants))
}

func TestCalculate_PercentageOvershootNeverGoesNegative(t *testing.T) {
	ids := newIDs(3)

	tests := []struct {
		name        string
		total       domain.Money
		percentages map[uuid.UUID]decimal.Decimal
		want        []domain.Money
	}{
		{
			name:  "zero percent participant listed first",
			total: 101,
			percentages: map[uuid.UUID]decimal.Decimal{
				ids[0]: pct("0"), ids[1]: pct("50"), ids[2]: pct("50"),
			},
			// 0.505 rounds up twice; the extra cent comes back from the first non-zero share
			want: []domain.Money{0, 50, 51},
		},
		{
			name:  "percentages at the tolerance edge",
			total: 1_000_000,
			percentages: map[uuid.UUID]decimal.Decimal{
				ids[0]: pct("0"), ids[1]: pct("50.01"), ids[2]: pct("50"),
			},
			// 100.01% overshoots by a dollar, taken back evenly from the two payers
			want: []domain.Money{0, 500_050, 499_950},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.SplitConfig{
				Type:           domain.SplitTypePercentage,
				ParticipantIDs: ids,
				Percentages:    tt.percentages,
			}
			require.True(t, ValidateSplit(tt.total, cfg).IsValid)

			split, err := Calculate(tt.total, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amountsOf(split.Participants))
			assertReconciles(t, tt.total, split.Participants)
		})
	}
}

func TestCalculate_LargeShareWeightsStayProportional(t *testing.T) {
	ids := newIDs(3)

	tests := []struct {
		name   string
		total  domain.Money
		ids    []uuid.UUID
		shares map[uuid.UUID]int
		want   []domain.Money
	}{
		{
			name:   "one share against two billion",
			total:  10_000_000_000,
			ids:    ids[:2],
			shares: map[uuid.UUID]int{ids[0]: 1, ids[1]: 2_000_000_000},
			want:   []domain.Money{5, 9_999_999_995},
		},
		{
			name:   "max int32 weight on a large total",
			total:  1_000_000_000_000,
			ids:    ids,
			shares: map[uuid.UUID]int{ids[0]: 3, ids[1]: 2_147_483_647, ids[2]: 5},
			want:   []domain.Money{1_397, 999_999_996_275, 2_328},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.SplitConfig{
				Type:           domain.SplitTypeShares,
				ParticipantIDs: tt.ids,
				Shares:         tt.shares,
			}

			split, err := Calculate(tt.total, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amountsOf(split.Participants))
			assertReconciles(t, tt.total, split.Participants)
		})
	}
}

func TestCalculatePercentages_NoEntries(t *testing.T) {
	result, err := CalculatePercentages(1000, newIDs(2), map[uuid.UUID]decimal.Decimal{})

	assert.ErrorIs(t, err, ErrNoParticipants)
	assert.Nil(t, result)
}

func TestCalculateShares(t *testing.T) {
	ids := newIDs(3)

	tests := []struct {
		name    string
		total   domain.Money
		shares  map[uuid.UUID]int
		want    []domain.Money
		wantErr error
	}{
		{
			name:   "one to two ratio",
			total:  9000,
			shares: map[uuid.UUID]int{ids[0]: 1, ids[1]: 2},
			want:   []domain.Money{3000, 6000},
		},
		{
			name:   "floored shares with leftover cent",
			total:  100,
			shares: map[uuid.UUID]int{ids[0]: 1, ids[1]: 2},
			// 33 + 66 = 99, leftover cent to the first participant
			want: []domain.Money{34, 66},
		},
		{
			name:   "equal shares behave like an equal split",
			total:  1000,
			shares: map[uuid.UUID]int{ids[0]: 1, ids[1]: 1, ids[2]: 1},
			want:   []domain.Money{334, 333, 333},
		},
		{
			name:    "zero total shares",
			total:   1000,
			shares:  map[uuid.UUID]int{ids[0]: 0, ids[1]: 0},
			wantErr: ErrNoShares,
		},
		{
			name:    "no entries",
			total:   1000,
			shares:  map[uuid.UUID]int{},
			wantErr: ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateShares(tt.total, ids, tt.shares)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amountsOf(result))
			assert.Equal(t, tt.total, sumOf(result))
		})
	}
}

func TestCalculateAdjustments(t *testing.T) {
	ids := newIDs(3)

	result, err := CalculateAdjustments(3000, ids, map[uuid.UUID]domain.Money{
		ids[0]: 500,
		ids[1]: -500,
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Money{1500, 500, 1000}, amountsOf(result))
	assert.Equal(t, domain.Money(3000), sumOf(result))
}

func TestCalculateAdjustments_NonZeroSumIsNotCorrected(t *testing.T) {
	ids := newIDs(2)

	result, err := CalculateAdjustments(1000, ids, map[uuid.UUID]domain.Money{ids[0]: 100})

	require.NoError(t, err)
	assert.Equal(t, []domain.Money{600, 500}, amountsOf(result))
	assert.Equal(t, domain.Money(1100), sumOf(result))
}

func TestEqualAmountPerPerson(t *testing.T) {
	amount, err := EqualAmountPerPerson(1000, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(333), amount)

	amount, err = EqualAmountPerPerson(1000, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1000), amount)

	_, err = EqualAmountPerPerson(1000, 0)
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestRoundToCents(t *testing.T) {
	tests := []struct {
		value string
		want  domain.Money
	}{
		{"1.005", 101},
		{"-1.005", -101},
		{"2.344", 234},
		{"2.345", 235},
		{"0.004", 0},
		{"33.33", 3333},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundToCents(decimal.RequireFromString(tt.value)))
		})
	}
}

func TestDistributeRemainder(t *testing.T) {
	amounts := []domain.Money{0, 0}
	distributeRemainder(amounts, 5)
	assert.Equal(t, []domain.Money{3, 2}, amounts)

	amounts = []domain.Money{10, 10, 10}
	distributeRemainder(amounts, -2)
	assert.Equal(t, []domain.Money{9, 9, 10}, amounts)

	// cents are only taken back from slots above zero
	amounts = []domain.Money{0, 1, 4}
	distributeRemainder(amounts, -3)
	assert.Equal(t, []domain.Money{0, 0, 2}, amounts)

	amounts = []domain.Money{0, 100, 100}
	distributeRemainder(amounts, -7)
	assert.Equal(t, []domain.Money{0, 96, 97}, amounts)

	// no slots, nothing to do
	distributeRemainder(nil, 3)
}

func TestCalculate_SumInvariantAcrossStrategies(t *testing.T) {
	totals := []domain.Money{0, 1, 99, 1000, 10001, 123457}

	for _, total := range totals {
		for n := 1; n <= 7; n++ {
			ids := newIDs(n)

			shares := make(map[uuid.UUID]int, n)
			percentages := make(map[uuid.UUID]decimal.Decimal, n)
			amounts := make(map[uuid.UUID]domain.Money, n)
			adjustments := make(map[uuid.UUID]domain.Money, n)
			equal, err := CalculateEqualSplit(total, ids)
			require.NoError(t, err)

			basisPoints := make([]domain.Money, n)
			for i := range basisPoints {
				basisPoints[i] = domain.Money(10000 / n)
			}
			distributeRemainder(basisPoints, domain.Money(10000-(10000/n)*n))

			for i, id := range ids {
				shares[id] = i + 1
				percentages[id] = basisPoints[i].Decimal()
				amounts[id] = equal[i].Amount
			}
			if n > 1 {
				adjustments[ids[0]] = 7
				adjustments[ids[n-1]] = -7
			}

			configs := []domain.SplitConfig{
				{Type: domain.SplitTypeEqual, ParticipantIDs: ids},
				{Type: domain.SplitTypeExact, ParticipantIDs: ids, Amounts: amounts},
				{Type: domain.SplitTypePercentage, ParticipantIDs: ids, Percentages: percentages},
				{Type: domain.SplitTypeShares, ParticipantIDs: ids, Shares: shares},
				{Type: domain.SplitTypeAdjustment, ParticipantIDs: ids, Adjustments: adjustments},
			}

			for _, cfg := range configs {
				split, err := Calculate(total, cfg)
				require.NoError(t, err, "type=%s total=%s n=%d", cfg.Type, total, n)
				assert.Equal(t, total, sumOf(split.Participants), "type=%s total=%s n=%d", cfg.Type, total, n)
				assert.Equal(t, cfg.Type, split.Type)
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	ids := newIDs(4)
	cfg := domain.SplitConfig{
		Type:           domain.SplitTypeShares,
		ParticipantIDs: ids,
		Shares:         map[uuid.UUID]int{ids[0]: 3, ids[1]: 1, ids[2]: 2, ids[3]: 5},
	}

	first, err := Calculate(10007, cfg)
	require.NoError(t, err)
	second, err := Calculate(10007, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_RejectsInvalidConfiguration(t *testing.T) {
	ids := newIDs(2)
	cfg := domain.SplitConfig{
		Type:           domain.SplitTypeExact,
		ParticipantIDs: ids,
		Amounts:        map[uuid.UUID]domain.Money{ids[0]: 1000, ids[1]: 1000},
	}

	split, err := Calculate(3000, cfg)

	assert.Nil(t, split)
	assert.ErrorIs(t, err, ErrInvalidSplit)
	assert.Contains(t, err.Error(), "20.00")
	assert.Contains(t, err.Error(), "30.00")
}

func TestPreviewSplit_ReturnsAllocationEvenWhenInvalid(t *testing.T) {
	ids := newIDs(2)
	cfg := domain.SplitConfig{
		Type:           domain.SplitTypeAdjustment,
		ParticipantIDs: ids,
		Adjustments:    map[uuid.UUID]domain.Money{ids[0]: 250},
	}

	preview := PreviewSplit(1000, cfg)

	assert.False(t, preview.Validation.IsValid)
	assert.Equal(t, []domain.Money{750, 500}, amountsOf(preview.Participants))
	assert.Equal(t, domain.Money(1250), preview.Allocated)
}

func TestPreviewSplit_NoParticipants(t *testing.T) {
	preview := PreviewSplit(1000, domain.SplitConfig{Type: domain.SplitTypeEqual})

	assert.False(t, preview.Validation.IsValid)
	assert.Empty(t, preview.Participants)
}
