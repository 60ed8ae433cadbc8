package oura_test

import (
	"testing"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/jrsteele09/go-oura-client/oura"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.example.com"

func TestSummaryURL(t *testing.T) {
	tests := []struct {
		name   string
		typ    oura.SummaryType
		start  string
		end    string
		strict bool
		want   string
	}{
		{name: "start only", typ: oura.SummarySleep, start: "2023-01-01", want: testBaseURL + "/v1/sleep?start=2023-01-01"},
		{name: "end only", typ: oura.SummaryActivity, end: "2023-01-07", want: testBaseURL + "/v1/activity?end=2023-01-07"},
		// Both dates keep the second "?" separator
		{name: "both", typ: oura.SummaryReadiness, start: "2023-01-01", end: "2023-01-07", want: testBaseURL + "/v1/readiness?start=2023-01-01?end=2023-01-07"},
		{name: "both strict", typ: oura.SummarySleep, start: "2023-01-01", end: "2023-01-07", strict: true, want: testBaseURL + "/v1/sleep?start=2023-01-01&end=2023-01-07"},
		{name: "no calendar validation", typ: oura.SummarySleep, start: "2023-02-31", want: testBaseURL + "/v1/sleep?start=2023-02-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oura.SummaryURL(testBaseURL, tt.typ, tt.start, tt.end, tt.strict)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSummaryURLNeedsADate(t *testing.T) {
	for _, typ := range []oura.SummaryType{oura.SummarySleep, oura.SummaryActivity, oura.SummaryReadiness} {
		_, err := oura.SummaryURL(testBaseURL, typ, "", "", false)
		require.ErrorIs(t, err, ouraerrors.ErrInvalidRequest)
	}
}
