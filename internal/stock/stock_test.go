package stock_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"marketproxy/internal/httpx"
	"marketproxy/internal/provider"
	"marketproxy/internal/provider/providertest"
	"marketproxy/internal/result"
	"marketproxy/internal/stock"
)

func ptr(f float64) *float64 { return &f }

func TestGetStockPrice(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	p := providertest.NewMockStockProvider(ctrl)
	p.EXPECT().Quote(gomock.Any(), []string{"AAPL"}).Return([]provider.StockQuote{
		{Symbol: "AAPL", RegularMarketPrice: ptr(145.93)},
	}, nil)
	svc := stock.NewService(p, nil)

	// Act
	prices, f := svc.GetStockPrice(context.Background(), []string{"aapl"}).Unwrap()

	// Assert
	require.Nil(t, f)
	require.Len(t, prices, 1)
	require.Equal(t, "AAPL", prices[0].Symbol)
	require.InDelta(t, 145.93, *prices[0].CurrentPrice, 1e-9)
}

func TestGetStockPrice_ProviderOrderAndNullPrices(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := providertest.NewMockStockProvider(ctrl)
	p.EXPECT().Quote(gomock.Any(), []string{"AAPL", "MSFT", "DELISTED"}).Return([]provider.StockQuote{
		{Symbol: "MSFT", RegularMarketPrice: ptr(250.2)},
		{Symbol: "DELISTED", RegularMarketPrice: ptr(0)},
		{Symbol: "AAPL"},
	}, nil)
	svc := stock.NewService(p, nil)

	prices, f := svc.GetStockPrice(context.Background(), []string{"AAPL", "MSFT", "DELISTED"}).Unwrap()

	require.Nil(t, f)
	require.Equal(t, []string{"MSFT", "DELISTED", "AAPL"}, []string{prices[0].Symbol, prices[1].Symbol, prices[2].Symbol})
	require.NotNil(t, prices[0].CurrentPrice)
	require.Nil(t, prices[1].CurrentPrice)
	require.Nil(t, prices[2].CurrentPrice)
}

func TestGetStockPrice_EmptyResultIsNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := providertest.NewMockStockProvider(ctrl)
	p.EXPECT().Quote(gomock.Any(), []string{"NOPE"}).Return(nil, nil)
	svc := stock.NewService(p, nil)

	_, f := svc.GetStockPrice(context.Background(), []string{"NOPE"}).Unwrap()

	require.NotNil(t, f)
	require.Equal(t, http.StatusBadRequest, f.Code)
	require.Equal(t, stock.MsgSymbolNotFound, f.Message)
	require.Equal(t, result.KindNotFound, f.Kind)
}

func TestGetStockPrice_UpstreamError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := providertest.NewMockStockProvider(ctrl)
	p.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(nil, httpx.TransportError("yahoo", errors.New("i/o timeout")))
	svc := stock.NewService(p, nil)

	_, f := svc.GetStockPrice(context.Background(), []string{"AAPL"}).Unwrap()

	require.NotNil(t, f)
	require.Equal(t, http.StatusBadRequest, f.Code)
	require.Equal(t, "i/o timeout", f.Message)
	require.Equal(t, result.KindUpstream, f.Kind)
}

func TestSearchStock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := providertest.NewMockStockProvider(ctrl)
	doc := provider.NewStockSearch([]byte(`{"quotes":[{"symbol":"AAPL"}],"news":[{"title":"x"}]}`))
	p.EXPECT().Search(gomock.Any(), "apple").Return(doc, nil)
	p.EXPECT().Search(gomock.Any(), "").Return(provider.StockSearch{}, httpx.Classify("yahoo", 400, "Invalid Search Query"))
	svc := stock.NewService(p, nil)

	got, f := svc.SearchStock(context.Background(), "apple").Unwrap()
	require.Nil(t, f)
	require.Equal(t, []string{"AAPL"}, got.Symbols())

	_, f = svc.SearchStock(context.Background(), "").Unwrap()
	require.NotNil(t, f)
	require.Equal(t, "Invalid Search Query", f.Message)
}

func TestResolveSymbols(t *testing.T) {
	t.Parallel()

	t.Run("explicit symbols win", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := providertest.NewMockStockProvider(ctrl)
		svc := stock.NewService(p, nil)

		got := svc.ResolveSymbols(context.Background(), []string{"AAPL", " ", "MSFT"}, "Apple")

		require.Equal(t, []string{"AAPL", "MSFT"}, got)
	})

	t.Run("company name searched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := providertest.NewMockStockProvider(ctrl)
		p.EXPECT().Search(gomock.Any(), "Apple").Return(provider.NewStockSearch([]byte(`{"quotes":[{"symbol":"AAPL"},{"index":"x"},{"symbol":"APLE"}]}`)), nil)
		svc := stock.NewService(p, nil)

		got := svc.ResolveSymbols(context.Background(), nil, "Apple")

		require.Equal(t, []string{"AAPL", "APLE"}, got)
	})

	t.Run("failed search degrades to blank symbol", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := providertest.NewMockStockProvider(ctrl)
		p.EXPECT().Search(gomock.Any(), "Nothing").Return(provider.StockSearch{}, errors.New("boom"))
		p.EXPECT().Quote(gomock.Any(), []string{""}).Return(nil, nil)
		svc := stock.NewService(p, nil)

		symbols := svc.ResolveSymbols(context.Background(), nil, "Nothing")
		require.Equal(t, []string{""}, symbols)

		_, f := svc.GetStockPrice(context.Background(), symbols).Unwrap()
		require.NotNil(t, f)
		require.Equal(t, stock.MsgSymbolNotFound, f.Message)
	})
}
