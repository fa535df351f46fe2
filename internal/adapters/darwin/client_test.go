package darwin_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/railboard/internal/adapters/darwin"
	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/transform"
)

var stations = map[string]string{"Charlton": "CTN"}

func newClient(t *testing.T, url string) *darwin.Client {
	t.Helper()
	return darwin.New(darwin.Config{
		Endpoint:       url,
		Token:          "secret-token",
		NumRows:        50,
		Timeout:        2 * time.Second,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	}, stations)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestClient_GetDepartureBoard(t *testing.T) {
	body := readFixture(t, "charlton_board.xml")
	var gotRequest, gotAction string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotRequest = string(b)
		gotAction = r.Header.Get("SOAPAction")
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	board, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Charlton")
	require.NoError(t, err)

	assert.Contains(t, gotAction, "GetDepBoardWithDetails")
	assert.Contains(t, gotRequest, "<crs>CTN</crs>")
	assert.Contains(t, gotRequest, "<numRows>50</numRows>")
	assert.Contains(t, gotRequest, "<TokenValue>secret-token</TokenValue>")

	assert.Equal(t, "Charlton", domain.Deref(board.LocationName))
	assert.Nil(t, board.AreServicesAvailable)
	require.NotNil(t, board.NRCCMessages)
	require.Len(t, board.NRCCMessages.Message, 1)
	assert.Equal(t, "<p>Toilets are out of order.</p>", domain.Deref(board.NRCCMessages.Message[0].Value))

	services := board.Services()
	require.Len(t, services, 2)
	assert.Equal(t, "Ejj51DopLBG4oePJ8QS1vw==", domain.Deref(services[0].ServiceID))
	assert.Equal(t, 10, *services[0].Length)
	assert.Equal(t, "1", domain.Deref(services[0].Platform))
	assert.True(t, domain.Truthy(services[1].IsCancelled))
	assert.Nil(t, services[1].Length)
	require.Len(t, services[0].CallingPoints(), 2)
	assert.Equal(t, []string{"Platform change"}, services[0].CallingPoints()[1].AdhocAlerts)
}

func TestClient_BoardTransforms(t *testing.T) {
	body := readFixture(t, "charlton_board.xml")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	board, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Charlton")
	require.NoError(t, err)

	got, err := transform.Transform(board, domain.NewNameSet("London Charing Cross", "London Cannon Street"))
	require.NoError(t, err)
	require.Len(t, got.Services, 2)

	first := got.Services[0]
	assert.Equal(t, domain.StatusNewTime, first.Status.Status)
	assert.Equal(t, "13:08", first.Time.String())
	assert.Equal(t, []domain.CallingPoint{{Name: "London Charing Cross", Time: "13:35", Alert: "Platform change"}}, first.CallingPoints)

	second := got.Services[1]
	assert.Equal(t, domain.StatusCancelled, second.Status.Status)
	assert.Equal(t, "Cancel reason: a signalling fault", second.Status.AbnormalityMessage)
	assert.Equal(t, "13:12", second.Time.String())
	assert.True(t, second.CallingPoints[0].IsCancelled)
}

func TestClient_UnknownStation(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrLookupFailure)

	var lookup *domain.LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, "Atlantis", lookup.Station)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_RetriesTransportFailures(t *testing.T) {
	body := readFixture(t, "charlton_board.xml")
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	board, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Charlton")
	require.NoError(t, err)
	assert.Equal(t, "Charlton", domain.Deref(board.LocationName))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Charlton")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_SOAPFaultIsNotRetried(t *testing.T) {
	body := readFixture(t, "fault.xml")
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Charlton")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.True(t, strings.Contains(err.Error(), "Invalid crs code"), err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_FaultStopsRetriesAndKeepsFaultString(t *testing.T) {
	body := readFixture(t, "fault.xml")
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c := darwin.New(darwin.Config{
		Endpoint:       srv.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     5,
		InitialBackoff: time.Millisecond,
	}, stations)
	_, err := c.GetDepartureBoard(context.Background(), "Charlton")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "soap fault soap:Client: Invalid crs code supplied")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_RetryByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{"plain 500 is retried", http.StatusInternalServerError, "<html>upstream error</html>", 3},
		{"503 is retried", http.StatusServiceUnavailable, "", 3},
		{"429 is retried", http.StatusTooManyRequests, "", 3},
		{"401 is not retried", http.StatusUnauthorized, "", 1},
		{"404 is not retried", http.StatusNotFound, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL).GetDepartureBoard(context.Background(), "Charlton")
			require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}
