package yahoo_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chainfetch/internal/marketdata"
	"chainfetch/internal/marketdata/yahoo"
)

func newSource(t *testing.T, httpClient yahoo.HTTPClient, now func() time.Time) *yahoo.Source {
	t.Helper()
	return yahoo.NewSource(newClient(t, httpClient), yahoo.Config{QuoteTTL: time.Minute, Now: now})
}

func TestSource_ListingMemoized(t *testing.T) {
	t.Parallel()

	// Arrange: one session and one undated options request
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	expectSession(httpClient, "abc123")
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Empty(t, req.URL.Query().Get("date"))
			return jsonResponse(t, http.StatusOK, optionsBody(listingResult)), nil
		}).
		Times(1)

	src := newSource(t, httpClient, time.Now)

	// Act: spot, expirations and dividend yield share the listing
	spot, err := src.Spot(t.Context(), "TSLA")
	require.NoError(t, err)
	expirations, err := src.Expirations(t.Context(), "tsla")
	require.NoError(t, err)
	yield, err := src.DividendYield(t.Context(), "TSLA")
	require.NoError(t, err)

	// Assert: values are converted
	require.Equal(t, "yahoo", src.Name())
	require.True(t, spot.Equal(decimal.RequireFromString("250.5")))
	require.Equal(t, []time.Time{
		time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC),
	}, expirations)
	// Forward yield is quoted in percent.
	require.True(t, yield.Equal(decimal.RequireFromString("0.0125")), yield.String())
}

func TestSource_ListingExpires(t *testing.T) {
	t.Parallel()

	// Arrange: a clock that jumps past the TTL between calls
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	expectSession(httpClient, "abc123")
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(t, http.StatusOK, optionsBody(listingResult)), nil
		}).
		Times(2)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := newSource(t, httpClient, func() time.Time { return now })

	// Act: call Spot before and after expiry
	_, err := src.Spot(t.Context(), "TSLA")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = src.Spot(t.Context(), "TSLA")

	// Assert: the listing was fetched again
	require.NoError(t, err)
}

func TestSource_DividendYield(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		quote yahoo.UnderlyingQuote
		want  string
	}{
		{name: "trailing preferred", quote: yahoo.UnderlyingQuote{TrailingAnnualDividendYield: ptr(0.004), DividendYield: ptr(0.5)}, want: "0.004"},
		{name: "forward percent", quote: yahoo.UnderlyingQuote{DividendYield: ptr(0.5)}, want: "0.005"},
		{name: "none", quote: yahoo.UnderlyingQuote{}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			expectSession(httpClient, "abc123")
			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					return jsonResponse(t, http.StatusOK, optionsBody(yahoo.OptionChainResult{Quote: tt.quote})), nil
				}).
				Times(1)

			src := newSource(t, httpClient, time.Now)

			// Act: read the dividend yield
			got, err := src.DividendYield(t.Context(), "KO")

			// Assert: the expected source field wins
			require.NoError(t, err)
			require.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}
}

func TestSource_SpotMissing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	expectSession(httpClient, "abc123")
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(t, http.StatusOK, optionsBody(yahoo.OptionChainResult{})), nil
		}).
		Times(1)

	src := newSource(t, httpClient, time.Now)

	// Act: read the spot of a quote without a market price
	_, err := src.Spot(t.Context(), "TSLA")

	// Assert: spot is reported as not found
	require.ErrorIs(t, err, marketdata.ErrNotFound)
}

func TestSource_Chain(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	expectSession(httpClient, "abc123")
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "1750377600", req.URL.Query().Get("date"))
			return jsonResponse(t, http.StatusOK, optionsBody(listingResult)), nil
		}).
		Times(1)

	src := newSource(t, httpClient, time.Now)

	// Act: fetch the chain of a listed expiration
	chain, err := src.Chain(t.Context(), "TSLA", time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Assert: the zero strike is dropped and missing fields are absent
	require.Len(t, chain.Calls, 2)
	require.True(t, chain.Calls[0].Strike.Equal(decimal.NewFromInt(240)))
	require.True(t, chain.Calls[0].Bid.Valid)
	require.False(t, chain.Calls[1].Bid.Valid)
	require.False(t, chain.Calls[1].Ask.Valid)
	require.True(t, chain.Calls[1].Last.Decimal.Equal(decimal.RequireFromString("6.2")))

	// Assert: a negative bid is absent
	require.Len(t, chain.Puts, 1)
	require.False(t, chain.Puts[0].Bid.Valid)
	require.True(t, chain.Puts[0].Ask.Valid)
	require.False(t, chain.Puts[0].Last.Valid)
}

func TestSource_ChainWithoutContracts(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	expectSession(httpClient, "abc123")
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(t, http.StatusOK, optionsBody(yahoo.OptionChainResult{ExpirationDates: []int64{1750377600}})), nil
		}).
		Times(1)

	src := newSource(t, httpClient, time.Now)

	// Act: fetch a chain the provider has no option set for
	_, err := src.Chain(t.Context(), "TSLA", time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))

	// Assert: the chain is not found
	require.ErrorIs(t, err, marketdata.ErrNotFound)
}

func TestSource_Closes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusOK, `{"chart":{"result":[{"indicators":{"quote":[{"close":[null,4.2,null,4.3]}]}}]}}`), nil).
		Times(1)

	src := newSource(t, httpClient, time.Now)

	// Act: read a close series with gaps
	closes, err := src.Closes(t.Context(), "^IRX")

	// Assert: nulls are dropped and order kept
	require.NoError(t, err)
	require.Len(t, closes, 2)
	require.True(t, closes[0].Equal(decimal.RequireFromString("4.2")))
	require.True(t, closes[1].Equal(decimal.RequireFromString("4.3")))
}

func TestSource_ChainRejectsOtherExpiration(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	expectSession(httpClient, "abc123")
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			// Yahoo answers an unlisted date with the nearest listed one.
			return jsonResponse(t, http.StatusOK, optionsBody(listingResult)), nil
		}).
		Times(1)

	src := newSource(t, httpClient, time.Now)

	// Act: ask for a date the response does not carry
	chain, err := src.Chain(t.Context(), "TSLA", time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC))

	// Assert: the mismatched set is not returned
	require.ErrorIs(t, err, marketdata.ErrNotFound)
	require.ErrorContains(t, err, "2025-06-20")
	require.Empty(t, chain.Calls)
	require.Empty(t, chain.Puts)
}
