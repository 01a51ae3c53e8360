package testrail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll_PreservesOrder(t *testing.T) {
	ids := []int{5, 1, 4, 2, 3}

	got, err := FetchAll(context.Background(), ids, 2, func(ctx context.Context, id int) (int, error) {
		time.Sleep(time.Duration(id) * time.Millisecond)
		return id * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 10, 40, 20, 30}, got)
}

func TestFetchAll_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	_, err := FetchAll(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8}, 3, func(ctx context.Context, id int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestFetchAll_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")

	got, err := FetchAll(context.Background(), []int{1, 2, 3}, 0, func(ctx context.Context, id int) (int, error) {
		if id == 2 {
			return 0, boom
		}
		return id, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestFetchAll_Empty(t *testing.T) {
	got, err := FetchAll(context.Background(), nil, 3, func(ctx context.Context, id int) (int, error) {
		t.Fatal("fetch must not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchAll_WithClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/v2/get_case/")
		if id == "404" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Field :case_id is not a valid test case."}`))
			return
		}
		w.Write([]byte(`{"id":` + id + `,"title":"Case ` + id + `"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	cases, err := FetchAll(ctx, []int{3, 1, 2}, 2, client.Cases.GetCase)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "Case 3", cases[0].Title)
	assert.Equal(t, "Case 1", cases[1].Title)
	assert.Equal(t, "Case 2", cases[2].Title)

	_, err = FetchAll(ctx, []int{1, 404}, 2, client.Cases.GetCase)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}
