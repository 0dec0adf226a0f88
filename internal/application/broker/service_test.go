package broker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/obpp/dashboard/internal/domain/shared"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/infrastructure/session"
	"github.com/obpp/dashboard/internal/infrastructure/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	calls atomic.Int32
	last  spreadsheet.Request
	data  *tabular.Dataset
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, req spreadsheet.Request) (*tabular.Dataset, error) {
	s.calls.Add(1)
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func brokerList() *tabular.Dataset {
	d := tabular.New([]string{"Sr. No.", "Name", "Registration No.", "Address", "From"})
	d.Append([]string{"1", "Acme Broking", "INZ000000001", "Mumbai", "2019-01-01"})
	d.Append([]string{"2", "ACME BROKING LTD", "INZ000000001", "Mumbai", "2019-01-01"})
	d.Append([]string{"3", "Globex Securities", "INZ000000002", "Pune", "2020-01-01"})
	return d
}

func TestService_Load(t *testing.T) {
	fetcher := &stubFetcher{data: brokerList()}
	svc := NewService(fetcher, Config{URL: "https://example.test/export", HeaderRow: 2})

	dir, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	req := fetcher.last
	assert.Equal(t, "https://example.test/export", req.URL)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, 2, req.HeaderRow)
	assert.Equal(t, spreadsheet.FormatXLSX, req.Format)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Headers["Content-Type"])
	assert.Equal(t, "https://www.sebi.gov.in", req.Headers["Origin"])
}

func TestService_Search(t *testing.T) {
	t.Run("memoizes the directory in the slot", func(t *testing.T) {
		fetcher := &stubFetcher{data: brokerList()}
		svc := NewService(fetcher, Config{URL: "https://example.test/export"})
		slot := session.NewSlot[*tabular.Dataset]()

		first, err := svc.Search(context.Background(), slot, "acme")
		require.NoError(t, err)
		second, err := svc.Search(context.Background(), slot, "globex")
		require.NoError(t, err)

		assert.Equal(t, int32(1), fetcher.calls.Load())
		require.Len(t, first, 1)
		assert.Equal(t, "Acme Broking", first[0].Name)
		require.Len(t, second, 1)
		assert.Equal(t, "INZ000000002", second[0].RegistrationNumber)
	})

	t.Run("failed load is retried on next search", func(t *testing.T) {
		fetcher := &stubFetcher{err: shared.NewNetworkError("broker list is unreachable", nil)}
		svc := NewService(fetcher, Config{URL: "https://example.test/export"})
		slot := session.NewSlot[*tabular.Dataset]()

		_, err := svc.Search(context.Background(), slot, "acme")
		assert.ErrorIs(t, err, shared.ErrNetwork)

		fetcher.err = nil
		fetcher.data = brokerList()
		res, err := svc.Search(context.Background(), slot, "acme")
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, int32(2), fetcher.calls.Load())
	})

	t.Run("export without expected columns", func(t *testing.T) {
		fetcher := &stubFetcher{data: tabular.New([]string{"Unnamed: 0"})}
		svc := NewService(fetcher, Config{URL: "https://example.test/export"})

		_, err := svc.Search(context.Background(), session.NewSlot[*tabular.Dataset](), "acme")
		assert.ErrorIs(t, err, shared.ErrUpstreamParse)
	})

	t.Run("no match", func(t *testing.T) {
		svc := NewService(&stubFetcher{data: brokerList()}, Config{URL: "https://example.test/export"})
		res, err := svc.Search(context.Background(), session.NewSlot[*tabular.Dataset](), "zzz")
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}
