package oura

import (
	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
)

// SummaryType names one of the date-ranged summary resources.
type SummaryType string

const (
	SummarySleep     SummaryType = "sleep"
	SummaryActivity  SummaryType = "activity"
	SummaryReadiness SummaryType = "readiness"
)

const (
	userInfoPath = "/v1/userinfo"
	apiVersion   = "/v1/"
)

// SummaryURL builds the URL of a summary request. start and end are
// YYYY-MM-DD dates and either may be empty, but not both.
//
// With both set the dates are joined with a second "?"
// (start=2023-01-01?end=2023-01-07), or with "&" when strict is set.
func SummaryURL(baseURL string, summaryType SummaryType, start, end string, strict bool) (string, error) {
	if start == "" && end == "" {
		return "", ouraerrors.Invalidf("summary needs start date or end date")
	}

	url := baseURL + apiVersion + string(summaryType) + "?"
	switch {
	case end == "":
		return url + "start=" + start, nil
	case start == "":
		return url + "end=" + end, nil
	case strict:
		return url + "start=" + start + "&end=" + end, nil
	default:
		return url + "start=" + start + "?end=" + end, nil
	}
}
