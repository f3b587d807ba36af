package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Compare(ctx context.Context, user string) (*Outcome, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Outcome), args.Error(1)
}

func (m *MockService) CompareRows(ctx context.Context, req RowsRequest) (*types.ComparisonResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ComparisonResult), args.Error(1)
}

func (m *MockService) MockPayload(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockService) POIs(ctx context.Context) ([]types.PointOfInterest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PointOfInterest), args.Error(1)
}

func TestCompareGeoHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		outcome    *Outcome
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "scored result",
			query:      "?user=User_2",
			outcome:    &Outcome{Result: &types.ComparisonResult{User: "User_2", Strategy: "preference"}},
			wantStatus: http.StatusOK,
			wantBody:   `"user":"User_2"`,
		},
		{
			name:       "override verbatim",
			outcome:    &Outcome{Override: json.RawMessage(`{"mock":true}`)},
			wantStatus: http.StatusOK,
			wantBody:   `{"mock":true}`,
		},
		{
			name:       "bad user",
			query:      "?user=abc",
			err:        fmt.Errorf("%w: abc", types.ErrInvalidUserSelector),
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid user selector",
		},
		{
			name:       "missing data",
			err:        fmt.Errorf("poi master: %w", types.ErrMissingReferenceData),
			wantStatus: http.StatusNotFound,
			wantBody:   "reference data not available",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			user := strings.TrimPrefix(strings.TrimPrefix(tt.query, "?"), "user=")
			if tt.err != nil {
				svc.On("Compare", mock.Anything, user).Return(nil, tt.err)
			} else {
				svc.On("Compare", mock.Anything, user).Return(tt.outcome, nil)
			}
			h := NewHandlerImpl(svc, discardLogger())

			w := httptest.NewRecorder()
			h.CompareGeo(w, httptest.NewRequest(http.MethodGet, "/api/v1/compare_geo"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			svc.AssertExpectations(t)
		})
	}
}

func TestCompareRowsHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("CompareRows", mock.Anything, mock.MatchedBy(func(r RowsRequest) bool {
		return r.UserType == "Type B" && len(r.Desired) == 1
	})).Return(&types.ComparisonResult{UserType: "Type B"}, nil)
	h := NewHandlerImpl(svc, discardLogger())

	body := `{"user_type":"Type B","desired":[{"slot":"slot1","place":"move","transport":"walk"}]}`
	w := httptest.NewRecorder()
	h.CompareRows(w, httptest.NewRequest(http.MethodPost, "/api/v1/compare_geo", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, w.Code)

	var got types.ComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Type B", got.UserType)

	w = httptest.NewRecorder()
	h.CompareRows(w, httptest.NewRequest(http.MethodPost, "/api/v1/compare_geo", strings.NewReader(`{"nope":1}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "CompareRows", 1)
}

func TestCompareRowsHandlerServiceError(t *testing.T) {
	svc := new(MockService)
	svc.On("CompareRows", mock.Anything, mock.Anything).Return(nil, ErrNoRows)
	h := NewHandlerImpl(svc, discardLogger())

	w := httptest.NewRecorder()
	h.CompareRows(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body api.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrNoRows.Error(), body.Error)
}

func TestMockCompareHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("MockPayload", mock.Anything).Return(json.RawMessage(`[1,2,3]`), nil).Once()
	svc.On("MockPayload", mock.Anything).Return(nil, types.ErrMissingReferenceData).Once()
	h := NewHandlerImpl(svc, discardLogger())

	w := httptest.NewRecorder()
	h.Compare(w, httptest.NewRequest(http.MethodGet, "/api/v1/compare", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `[1,2,3]`, w.Body.String())

	w = httptest.NewRecorder()
	h.Compare(w, httptest.NewRequest(http.MethodGet, "/api/v1/compare", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "mock comparison not available")
}

func TestListPOIsHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("POIs", mock.Anything).Return([]types.PointOfInterest{{ID: "10", Name: "Kyoto Station"}}, nil)
	h := NewHandlerImpl(svc, discardLogger())

	w := httptest.NewRecorder()
	h.ListPOIs(w, httptest.NewRequest(http.MethodGet, "/api/v1/pois", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var got []types.PointOfInterest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Kyoto Station", got[0].Name)
}
