package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/liliang-cn/flixvec/pkg/core"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fmt.Errorf("wrapped: %w", &core.NotFoundError{ID: "Jaws"}), OutcomeNotFound},
		{fmt.Errorf("%w: -1", core.ErrInvalidCount), OutcomeInvalid},
		{errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(Recommendations.WithLabelValues(OutcomeOK))
	nfBefore := testutil.ToFloat64(Recommendations.WithLabelValues(OutcomeNotFound))

	RecordRecommendation(2*time.Millisecond, 20, nil)
	RecordRecommendation(time.Millisecond, 0, &core.NotFoundError{ID: "Jaws"})

	if got := testutil.ToFloat64(Recommendations.WithLabelValues(OutcomeOK)) - okBefore; got != 1 {
		t.Errorf("ok delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Recommendations.WithLabelValues(OutcomeNotFound)) - nfBefore; got != 1 {
		t.Errorf("not_found delta = %v, want 1", got)
	}
}

func TestSetDataset(t *testing.T) {
	SetDataset(1000, 384, 998, 1500*time.Millisecond)

	if got := testutil.ToFloat64(StoreMovies); got != 1000 {
		t.Errorf("StoreMovies = %v", got)
	}
	if got := testutil.ToFloat64(StoreDimensions); got != 384 {
		t.Errorf("StoreDimensions = %v", got)
	}
	if got := testutil.ToFloat64(CatalogEntries); got != 998 {
		t.Errorf("CatalogEntries = %v", got)
	}
	if got := testutil.ToFloat64(LoadDuration); got != 1.5 {
		t.Errorf("LoadDuration = %v", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "404")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("GET", "/api/v1/recommendations", 404, 3*time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("request delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}
