package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/persuasion"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/reference"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/scoring"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

const (
	poiCSV = "PoI_ID,施設名,カテゴリ,Latitude,Longitude\n" +
		"10,Kyoto Station,Station,34.9858,135.7588\n" +
		"11,Kiyomizu-dera Temple,Temple,34.9949,135.7850\n" +
		"12,Fushimi Inari Taisha,Shrine,34.9671,135.7727\n"
	desiredCSV = "Solution,User,Slot,POI,Transport\n" +
		"Solution_1,User_1,start,Kyoto Station,stay\n" +
		"Solution_1,User_1,slot4,Kiyomizu-dera Temple,stay\n" +
		"Solution_1,User_1,slot5,move,bike\n" +
		"Solution_1,User_1,return,Kyoto Station,stay\n"
	proposalCSV = "Solution,User,Slot,POI,Transport\n" +
		"Solution_1,User_1,start,Kyoto Station,stay\n" +
		"Solution_1,User_1,slot1,Fushimi Inari,stay\n" +
		"Solution_1,User_1,slot4,Kiyomizu-dera Temple,stay\n" +
		"Solution_1,User_1,return,Kyoto Station,stay\n"
)

type fixture struct {
	dir   string
	paths reference.Paths
}

func newFixture(t *testing.T, withPreferences bool) fixture {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}
	f := fixture{dir: dir, paths: reference.Paths{
		POIs:     write("poi_list.csv", poiCSV),
		Desired:  write("desired.csv", desiredCSV),
		Proposal: write("proposal.csv", proposalCSV),
	}}
	if withPreferences {
		f.paths.UserTypes = write("user_type.csv", "User_ID,User_Type\n1,Type A\n")
		f.paths.POIPreferences = write("poi_pref.csv", "PoI_ID,Type A\n11,8.0\n12,9.0\n")
		f.paths.TransportPreferences = write("transport_pref.csv", "transport mode,Type A\nRental Bicycle,6.0\n")
		f.paths.PersuasiveTexts = write("texts.json", `{"User_1":"Start at Fushimi Inari before the crowds."}`)
	}
	return f
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, f fixture, override OverrideSource, drafter persuasion.Drafter, strategy string) *ServiceImpl {
	t.Helper()
	logger := discardLogger()
	store := reference.NewStore(reference.NewCSVRepository(f.paths, logger), 0, 0, logger)
	return NewServiceImpl(store, override, FileOverride{Path: filepath.Join(f.dir, "mock_compare.json")}, drafter,
		Options{
			DefaultUser:     "User_1",
			DefaultUserType: "Type A",
			Strategy:        strategy,
			Synthetic:       scoring.NewSyntheticBiasStrategy(),
		}, logger)
}

type MockDrafter struct {
	mock.Mock
}

func (m *MockDrafter) Draft(ctx context.Context, req persuasion.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestComparePreferenceStrategy(t *testing.T) {
	svc := newService(t, newFixture(t, true), nil, nil, scoring.StrategyAuto)

	out, err := svc.Compare(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	res := out.Result

	assert.Equal(t, "User_1", res.User)
	assert.Equal(t, "Type A", res.UserType)
	assert.Equal(t, scoring.StrategyPreference, res.Strategy)
	assert.Equal(t, "Start at Fushimi Inari before the crowds.", res.PersuasiveText)

	require.Len(t, res.Desired.Slots, 4)
	assert.InDelta(t, 7.55, *res.Desired.Slots[1].Satisfaction, 1e-9)
	assert.InDelta(t, 5.55, *res.Desired.Slots[2].Satisfaction, 1e-9)
	assert.InDelta(t, 13.1, res.DesiredTotalSatisfaction, 1e-9)

	// "Fushimi Inari" is not an exact master name, so it falls back to 3.0.
	assert.Nil(t, res.Proposal.Slots[1].POI)
	assert.Equal(t, scoring.FallbackStaySatisfaction, *res.Proposal.Slots[1].Satisfaction)
	assert.Equal(t, scoring.FallbackLevel, *res.Proposal.Slots[1].SatisfactionLevel)
	assert.Zero(t, res.GapCorrections)
}

func TestCompareSyntheticStrategyWithoutPreferences(t *testing.T) {
	drafter := new(MockDrafter)
	drafter.On("Draft", mock.Anything, mock.MatchedBy(func(r persuasion.Request) bool {
		return r.User == "User_1" && r.Strategy == scoring.StrategySynthetic
	})).Return("Go later, it is calmer.", nil).Once()

	svc := newService(t, newFixture(t, false), nil, drafter, scoring.StrategyAuto)

	out, err := svc.Compare(context.Background(), "1")
	require.NoError(t, err)
	res := out.Result

	assert.Equal(t, scoring.StrategySynthetic, res.Strategy)
	assert.Equal(t, "Type A", res.UserType, "unknown users get the default type")
	assert.Equal(t, "Go later, it is calmer.", res.PersuasiveText)

	// contains matching resolves the partial name.
	require.NotNil(t, res.Proposal.Slots[1].POI)
	assert.Equal(t, "12", res.Proposal.Slots[1].POI.ID)

	// slot4 is shared: 65+15 against 65-15.
	assert.Equal(t, 80, *res.Desired.Slots[1].Congestion)
	assert.Equal(t, 50, *res.Proposal.Slots[2].Congestion)
	assert.Greater(t, res.ProposalTotalSatisfaction, res.DesiredTotalSatisfaction)
	drafter.AssertExpectations(t)
}

func TestCompareDrafterFailureLeavesTextEmpty(t *testing.T) {
	drafter := new(MockDrafter)
	drafter.On("Draft", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	svc := newService(t, newFixture(t, false), nil, drafter, scoring.StrategySynthetic)
	out, err := svc.Compare(context.Background(), "User_1")
	require.NoError(t, err)
	assert.Empty(t, out.Result.PersuasiveText)
}

func TestCompareErrors(t *testing.T) {
	svc := newService(t, newFixture(t, true), nil, nil, scoring.StrategyAuto)

	_, err := svc.Compare(context.Background(), "someone")
	assert.ErrorIs(t, err, types.ErrInvalidUserSelector)

	missing := newFixture(t, true)
	missing.paths.POIs = filepath.Join(missing.dir, "absent.csv")
	_, err = newService(t, missing, nil, nil, scoring.StrategyAuto).Compare(context.Background(), "User_1")
	assert.ErrorIs(t, err, types.ErrMissingReferenceData)

	noProposal := newFixture(t, true)
	noProposal.paths.Proposal = ""
	_, err = newService(t, noProposal, nil, nil, scoring.StrategyAuto).Compare(context.Background(), "User_1")
	assert.ErrorIs(t, err, types.ErrMissingReferenceData)
}

func TestCompareOverride(t *testing.T) {
	f := newFixture(t, true)
	mockPath := filepath.Join(f.dir, "mock_compare.json")
	override := FileOverride{Path: mockPath}
	svc := newService(t, f, override, nil, scoring.StrategyAuto)

	out, err := svc.Compare(context.Background(), "User_1")
	require.NoError(t, err)
	assert.NotNil(t, out.Result, "absent override file means real scoring")

	require.NoError(t, os.WriteFile(mockPath, []byte(`{"cards":[1,2]}`), 0o600))
	out, err = svc.Compare(context.Background(), "not-a-user")
	require.NoError(t, err, "override short-circuits before user validation")
	assert.Nil(t, out.Result)
	assert.JSONEq(t, `{"cards":[1,2]}`, string(out.Override))

	raw, err := svc.MockPayload(context.Background())
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}

func TestCompareRows(t *testing.T) {
	svc := newService(t, newFixture(t, true), nil, nil, scoring.StrategyAuto)

	res, err := svc.CompareRows(context.Background(), RowsRequest{
		UserType: "Type A",
		Strategy: scoring.StrategySynthetic,
		Desired:  []types.PlanRow{{Slot: "slot2", Place: "Kiyomizu-dera Temple"}},
		Proposal: []types.PlanRow{{Slot: "slot2", Place: "Kiyomizu-dera Temple"}},
	})
	require.NoError(t, err)
	assert.Equal(t, scoring.StrategySynthetic, res.Strategy)
	assert.Empty(t, res.PersuasiveText)

	_, err = svc.CompareRows(context.Background(), RowsRequest{})
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = svc.CompareRows(context.Background(), RowsRequest{
		Strategy: "coin-flip",
		Desired:  []types.PlanRow{{Slot: "slot2", Place: "x"}},
	})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestPOIs(t *testing.T) {
	svc := newService(t, newFixture(t, false), nil, nil, scoring.StrategyAuto)
	pois, err := svc.POIs(context.Background())
	require.NoError(t, err)
	assert.Len(t, pois, 3)
}

func TestNormalizeUser(t *testing.T) {
	u, err := NormalizeUser("", "User_1")
	require.NoError(t, err)
	assert.Equal(t, "User_1", u)

	u, err = NormalizeUser(" 7 ", "User_1")
	require.NoError(t, err)
	assert.Equal(t, "User_7", u)

	_, err = NormalizeUser("User_x", "User_1")
	assert.ErrorIs(t, err, types.ErrInvalidUserSelector)
}

func TestFileOverride(t *testing.T) {
	dir := t.TempDir()
	_, err := FileOverride{Path: filepath.Join(dir, "none.json")}.Payload(context.Background())
	assert.ErrorIs(t, err, types.ErrMissingReferenceData)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = FileOverride{Path: bad}.Payload(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrMissingReferenceData)
}
