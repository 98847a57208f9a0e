package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(workoutsCreated.WithLabelValues("running"))
	RecordWorkoutCreated("running")
	if got := testutil.ToFloat64(workoutsCreated.WithLabelValues("running")); got != before+1 {
		t.Fatalf("expected created counter to increase, got %v", got)
	}

	failures := testutil.ToFloat64(validationFailures)
	RecordValidationFailure()
	if testutil.ToFloat64(validationFailures) != failures+1 {
		t.Fatalf("expected validation counter to increase")
	}

	SetLogSize(3)
	if testutil.ToFloat64(logSize) != 3 {
		t.Fatalf("expected log size 3")
	}

	persistErrs := testutil.ToFloat64(persistFailures)
	ObservePersist(time.Now(), errors.New("boom"))
	if testutil.ToFloat64(persistFailures) != persistErrs+1 {
		t.Fatalf("expected persist failure counter to increase")
	}
	ObservePersist(time.Now(), nil)
	if testutil.ToFloat64(lastPersist) == 0 {
		t.Fatalf("expected last persist timestamp")
	}
}
