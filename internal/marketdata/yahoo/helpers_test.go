package yahoo_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chainfetch/internal/marketdata/yahoo"
)

const testBase = "http://yahoo.test"

func ptr(f float64) *float64 { return &f }

func jsonResponse(t *testing.T, status int, v any) *http.Response {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(v))
	return &http.Response{StatusCode: status, Body: io.NopCloser(buffer)}
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

// expectSession stubs the cookie bootstrap and crumb requests once each.
func expectSession(httpClient *MockHTTPClient, crumb string) {
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			switch req.URL.Path {
			case "/cookie":
				return textResponse(http.StatusNotFound, ""), nil
			case "/v1/test/getcrumb":
				return textResponse(http.StatusOK, crumb), nil
			}
			return textResponse(http.StatusTeapot, ""), nil
		}).
		Times(2)
}

func newClient(t *testing.T, httpClient yahoo.HTTPClient) *yahoo.Client {
	t.Helper()
	client, err := yahoo.NewClient(
		yahoo.WithBaseURL(testBase),
		yahoo.WithCookieURL(testBase+"/cookie"),
		yahoo.WithHTTPClient(httpClient),
	)
	require.NoError(t, err)
	return client
}

func optionsBody(result yahoo.OptionChainResult) yahoo.OptionChainResponse {
	var body yahoo.OptionChainResponse
	body.OptionChain.Result = []yahoo.OptionChainResult{result}
	return body
}

var listingResult = yahoo.OptionChainResult{
	UnderlyingSymbol: "TSLA",
	// 2025-06-20 and 2025-06-27, out of order.
	ExpirationDates: []int64{1750982400, 1750377600},
	Quote: yahoo.UnderlyingQuote{
		Symbol:                      "TSLA",
		RegularMarketPrice:          ptr(250.5),
		TrailingAnnualDividendYield: nil,
		DividendYield:               ptr(1.25),
	},
	Options: []yahoo.OptionSet{{
		ExpirationDate: 1750377600,
		Calls: []yahoo.Contract{
			{Strike: ptr(240), Bid: ptr(12.1), Ask: ptr(12.5), LastPrice: ptr(12.3)},
			{Strike: ptr(250), Bid: nil, Ask: nil, LastPrice: ptr(6.2)},
			{Strike: ptr(0), Bid: ptr(1), Ask: ptr(2)},
		},
		Puts: []yahoo.Contract{
			{Strike: ptr(245), Bid: ptr(-1), Ask: ptr(3.1), LastPrice: nil},
		},
	}},
}
