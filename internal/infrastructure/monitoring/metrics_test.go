package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	before := testutil.ToFloat64(Business.DecisionsTotal.WithLabelValues("approved"))
	RecordDecision("approved", 72, true)
	assert.Equal(t, before+1, testutil.ToFloat64(Business.DecisionsTotal.WithLabelValues("approved")))

	beforeNotFound := testutil.ToFloat64(Business.DecisionsTotal.WithLabelValues("not_found"))
	RecordDecision("not_found", 0, false)
	assert.Equal(t, beforeNotFound+1, testutil.ToFloat64(Business.DecisionsTotal.WithLabelValues("not_found")))
}

func TestRecordLoanIssued(t *testing.T) {
	before := testutil.ToFloat64(Business.LoansIssuedTotal)
	RecordLoanIssued()
	assert.Equal(t, before+1, testutil.ToFloat64(Business.LoansIssuedTotal))
}

func TestRecordIngestedRow(t *testing.T) {
	before := testutil.ToFloat64(Business.IngestedRowsTotal.WithLabelValues("loan", "skipped"))
	RecordIngestedRow("loan", "skipped")
	RecordIngestedRow("loan", "skipped")
	assert.Equal(t, before+2, testutil.ToFloat64(Business.IngestedRowsTotal.WithLabelValues("loan", "skipped")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTP.RequestsTotal.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", "200", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTP.RequestsTotal.WithLabelValues("GET", "/health", "200")))
}
