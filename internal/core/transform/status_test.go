package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/transform"
)

func TestResolveStatus(t *testing.T) {
	cases := []struct {
		etd       string
		cancelled bool
		want      domain.Status
	}{
		{"On time", false, domain.StatusOnTime},
		{"  on TIME ", false, domain.StatusOnTime},
		{"Delayed", false, domain.StatusDelayed},
		{"Cancelled", false, domain.StatusCancelled},
		{"13:08", false, domain.StatusNewTime},
		{"13:08", true, domain.StatusCancelled},
		{"On time", true, domain.StatusCancelled},
		{"Delayed", true, domain.StatusCancelled},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, transform.ResolveStatus(tc.etd, tc.cancelled), "etd=%q cancelled=%v", tc.etd, tc.cancelled)
	}
}

func TestResolveServiceTime(t *testing.T) {
	got, err := transform.ResolveServiceTime("13:06", "13:08")
	require.NoError(t, err)
	assert.Equal(t, domain.NewTimeOfDay(13, 8), got)

	for _, etd := range []string{"On time", "Delayed", "Cancelled"} {
		got, err = transform.ResolveServiceTime("13:06", etd)
		require.NoError(t, err)
		assert.Equal(t, domain.NewTimeOfDay(13, 6), got, etd)
	}
}

func TestResolveServiceTime_Malformed(t *testing.T) {
	_, err := transform.ResolveServiceTime("13:06", "soon")
	require.ErrorIs(t, err, domain.ErrMalformedPayload)

	var mp *domain.MalformedPayloadError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "etd", mp.Path)

	_, err = transform.ResolveServiceTime("25:99", "On time")
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "std", mp.Path)
}

func TestResolveCallingPointTime(t *testing.T) {
	assert.Equal(t, "00:42", transform.ResolveCallingPointTime("00:42", "00:40", "On time"))
	assert.Equal(t, "00:40", transform.ResolveCallingPointTime("", "00:40", "On time"))
	assert.Equal(t, "00:45", transform.ResolveCallingPointTime("", "00:40", "00:45"))
	assert.Equal(t, "Cancelled", transform.ResolveCallingPointTime("", "00:40", "Cancelled"))
}

func TestAggregateMessage(t *testing.T) {
	assert.Equal(t, "", transform.AggregateMessage("", "", nil))
	assert.Equal(t, "Cancel reason: A", transform.AggregateMessage("A", "", nil))
	assert.Equal(t, "Delay reason: B", transform.AggregateMessage("", "B", []string{}))
	assert.Equal(t,
		"Cancel reason: A\nDelay reason: B\nAlerts:\nC\nD",
		transform.AggregateMessage("A", "B", []string{"C", "D"}))
	assert.Equal(t, "Alerts:\nC", transform.AggregateMessage("", "", []string{"C"}))
}
