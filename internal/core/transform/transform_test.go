package transform_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/transform"
)

func str(s string) *string { return &s }
func boolp(b bool) *bool { return &b }
func intp(i int) *int { return &i }

var londonTermini = domain.NewNameSet("London Charing Cross", "London Cannon Street")

func loadBoard(t *testing.T, name string) *domain.DepartureBoard {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	var board domain.DepartureBoard
	require.NoError(t, json.Unmarshal(data, &board))
	return &board
}

func callingAt(points ...domain.CallingPointRecord) *domain.CallingPointLists {
	return &domain.CallingPointLists{
		CallingPointList: []domain.CallingPointList{{CallingPoint: points}},
	}
}

func TestMapService_NewTime(t *testing.T) {
	rec := domain.ServiceRecord{
		ServiceID: str("X"),
		Std:       str("13:06"),
		Etd:       str("13:08"),
		Length:    intp(10),
		Platform:  str("1"),
		SubsequentCallingPoints: callingAt(
			domain.CallingPointRecord{LocationName: str("London Bridge"), St: str("13:24"), Et: str("On time")},
			domain.CallingPointRecord{LocationName: str("London Charing Cross"), St: str("13:35"), Et: str("On time")},
		),
	}
	names := domain.NewNameSet("London Charing Cross")

	require.True(t, transform.IsValidService(rec, names))
	svc, err := transform.MapService(rec, names)
	require.NoError(t, err)

	assert.Equal(t, "X", svc.ID)
	assert.Equal(t, domain.StatusNewTime, svc.Status.Status)
	assert.Equal(t, "", svc.Status.AbnormalityMessage)
	assert.Equal(t, "13:08", svc.Time.String())
	require.NotNil(t, svc.Length)
	assert.Equal(t, 10, *svc.Length)
	require.NotNil(t, svc.Platform)
	assert.Equal(t, "1", *svc.Platform)
	assert.Equal(t, []domain.CallingPoint{{Name: "London Charing Cross", Time: "13:35"}}, svc.CallingPoints)
}

func TestMapService_OptionalFieldsAbsent(t *testing.T) {
	rec := domain.ServiceRecord{
		ServiceID:               str("Y"),
		Std:                     str("09:00"),
		Etd:                     str("Cancelled"),
		Length:                  intp(0),
		Platform:                str(""),
		CancelReason:            str("a fault"),
		SubsequentCallingPoints: callingAt(domain.CallingPointRecord{LocationName: str("A"), St: str("09:30"), Et: str("Cancelled"), IsCancelled: boolp(true)}),
	}
	svc, err := transform.MapService(rec, domain.NewNameSet("A"))
	require.NoError(t, err)
	assert.Nil(t, svc.Length)
	assert.Nil(t, svc.Platform)
	assert.Equal(t, domain.StatusCancelled, svc.Status.Status)
	assert.Equal(t, "Cancel reason: a fault", svc.Status.AbnormalityMessage)
	assert.Equal(t, "09:00", svc.Time.String())
	require.Len(t, svc.CallingPoints, 1)
	assert.True(t, svc.CallingPoints[0].IsCancelled)
	assert.Equal(t, "Cancelled", svc.CallingPoints[0].Time)
}

func TestMapService_MissingRequired(t *testing.T) {
	rec := domain.ServiceRecord{
		ServiceID:               str("Z"),
		Etd:                     str("On time"),
		SubsequentCallingPoints: callingAt(domain.CallingPointRecord{LocationName: str("A"), St: str("10:00"), Et: str("On time")}),
	}
	_, err := transform.MapService(rec, domain.NewNameSet("A"))
	var mp *domain.MalformedPayloadError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "std", mp.Path)
}

func TestMapCallingPoint(t *testing.T) {
	cp, err := transform.MapCallingPoint(domain.CallingPointRecord{
		LocationName: str("Woolwich Arsenal"),
		St:           str("00:40"),
		At:           str("00:42"),
		AdhocAlerts:  []string{"one", "two"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CallingPoint{Name: "Woolwich Arsenal", Time: "00:42", Alert: "one\ntwo"}, cp)

	cp, err = transform.MapCallingPoint(domain.CallingPointRecord{LocationName: str("B"), St: str("00:40"), Et: str("On time")})
	require.NoError(t, err)
	assert.Equal(t, "00:40", cp.Time)

	_, err = transform.MapCallingPoint(domain.CallingPointRecord{LocationName: str("B"), Et: str("On time")})
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	_, err = transform.MapCallingPoint(domain.CallingPointRecord{LocationName: str("B"), St: str("00:40")})
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	_, err = transform.MapCallingPoint(domain.CallingPointRecord{St: str("00:40"), Et: str("On time")})
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestMapCallingPoints_FiltersAndKeepsOrder(t *testing.T) {
	rec := domain.ServiceRecord{SubsequentCallingPoints: callingAt(
		domain.CallingPointRecord{LocationName: str("C"), St: str("10:03"), Et: str("On time")},
		domain.CallingPointRecord{LocationName: str("Skipped")},
		domain.CallingPointRecord{LocationName: str("A"), St: str("10:05"), Et: str("10:07")},
	)}
	points, err := transform.MapCallingPoints(rec, domain.NewNameSet("A", "C"))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "C", points[0].Name)
	assert.Equal(t, "A", points[1].Name)
	assert.Equal(t, "10:07", points[1].Time)

	points, err = transform.MapCallingPoints(domain.ServiceRecord{}, domain.NewNameSet("A"))
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestIsValidService(t *testing.T) {
	names := domain.NewNameSet("A")
	assert.False(t, transform.IsValidService(domain.ServiceRecord{}, names))
	assert.False(t, transform.IsValidService(domain.ServiceRecord{SubsequentCallingPoints: &domain.CallingPointLists{}}, names))
	assert.False(t, transform.IsValidService(domain.ServiceRecord{SubsequentCallingPoints: callingAt(domain.CallingPointRecord{LocationName: str("B")})}, names))
	assert.True(t, transform.IsValidService(domain.ServiceRecord{SubsequentCallingPoints: callingAt(domain.CallingPointRecord{}, domain.CallingPointRecord{LocationName: str("A")})}, names))
}

func TestTransform_EmptyBoard(t *testing.T) {
	board := &domain.DepartureBoard{LocationName: str("Nowhere")}
	got, err := transform.Transform(board, londonTermini)
	require.NoError(t, err)
	assert.Equal(t, domain.Station{Name: "Nowhere", AreServicesAvailable: true}, got.Station)
	assert.NotNil(t, got.Services)
	assert.Empty(t, got.Services)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"services":[]`)
}

func TestTransform_ServicesUnavailable(t *testing.T) {
	board := &domain.DepartureBoard{LocationName: str("Nowhere"), AreServicesAvailable: boolp(false)}
	got, err := transform.Transform(board, londonTermini)
	require.NoError(t, err)
	assert.False(t, got.Station.AreServicesAvailable)
}

func TestTransform_MalformedBoard(t *testing.T) {
	_, err := transform.Transform(&domain.DepartureBoard{}, londonTermini)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	_, err = transform.Transform(nil, londonTermini)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	board := &domain.DepartureBoard{
		LocationName: str("X"),
		NRCCMessages: &domain.NRCCMessages{Message: []domain.NRCCMessage{{}}},
	}
	_, err = transform.Transform(board, londonTermini)
	var mp *domain.MalformedPayloadError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "nrccMessages.message[0]._value_1", mp.Path)
}

func TestTransform_MalformedServiceReportsPath(t *testing.T) {
	board := &domain.DepartureBoard{
		LocationName: str("X"),
		TrainServices: &domain.TrainServices{Service: []domain.ServiceRecord{
			{SubsequentCallingPoints: callingAt(domain.CallingPointRecord{LocationName: str("B")})},
			{
				ServiceID: str("S"),
				Std:       str("10:00"),
				Etd:       str("On time"),
				SubsequentCallingPoints: callingAt(
					domain.CallingPointRecord{LocationName: str("London Cannon Street"), Et: str("On time")},
				),
			},
		}},
	}
	_, err := transform.Transform(board, londonTermini)
	var mp *domain.MalformedPayloadError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "trainServices.service[1].subsequentCallingPoints.callingPointList[0].callingPoint[0].st", mp.Path)
}

func TestTransform_InvalidRecordsDoNotFail(t *testing.T) {
	// Filtered records are never validated beyond their calling point names.
	board := &domain.DepartureBoard{
		LocationName: str("X"),
		TrainServices: &domain.TrainServices{Service: []domain.ServiceRecord{
			{},
			{Std: str("garbage"), SubsequentCallingPoints: callingAt(domain.CallingPointRecord{LocationName: str("Elsewhere")})},
		}},
	}
	got, err := transform.Transform(board, londonTermini)
	require.NoError(t, err)
	assert.Empty(t, got.Services)
}

func TestTransform_Charlton(t *testing.T) {
	got, err := transform.Transform(loadBoard(t, "charlton.json"), londonTermini)
	require.NoError(t, err)

	assert.Equal(t, "Charlton", got.Station.Name)
	assert.True(t, got.Station.AreServicesAvailable)
	assert.Equal(t,
		"\nA reduced service will operate on Southern, Thameslink and Great Northern routes until further notice. "+
			"More information can be found in <a href='http://nationalrail.co.uk/service_disruptions/287384.aspx'>Latest Travel News</a>."+
			"\n<p>\nAll toilets at the station are out of order at Charlton station.</p>",
		got.Station.Message)

	type row struct {
		id, time, stop, stopTime string
		status                   domain.Status
	}
	want := []row{
		{"Ejj51DopLBG4oePJ8QS1vw==", "13:08", "London Charing Cross", "13:35", domain.StatusNewTime},
		{"14etaXoW2Uyf34f3euTuUg==", "13:20", "London Cannon Street", "13:41", domain.StatusOnTime},
		{"3ohw4h+KUjXfevFqr64amg==", "13:36", "London Charing Cross", "14:05", domain.StatusOnTime},
		{"tao5H+0gvJKNM8g6EqbLPA==", "13:50", "London Cannon Street", "14:11", domain.StatusOnTime},
		{"Ybb/0Pq05hK6WHCG7IVbtQ==", "14:06", "London Charing Cross", "14:35", domain.StatusOnTime},
	}
	require.Len(t, got.Services, len(want))
	for i, w := range want {
		svc := got.Services[i]
		assert.Equal(t, w.id, svc.ID)
		assert.Equal(t, w.time, svc.Time.String())
		assert.Equal(t, w.status, svc.Status.Status)
		require.Len(t, svc.CallingPoints, 1)
		assert.Equal(t, w.stop, svc.CallingPoints[0].Name)
		assert.Equal(t, w.stopTime, svc.CallingPoints[0].Time)
	}

	assert.Equal(t, 8, *got.Services[1].Length)
	assert.Nil(t, got.Services[4].Platform)
}
