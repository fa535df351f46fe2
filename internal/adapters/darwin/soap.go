package darwin

import "encoding/xml"

// Request and response shapes for GetDepBoardWithDetails. Child elements are
// matched by local name only, since Darwin spreads them over several
// versioned type namespaces.

const getDepBoardWithDetailsAction = "http://thalesgroup.com/RTTI/2015-05-14/ldb/GetDepBoardWithDetails"

type accessToken struct {
	XMLName xml.Name `xml:"http://thalesgroup.com/RTTI/2013-11-28/Token/types AccessToken"`

	TokenValue string `xml:"TokenValue"`
}

type getDepBoardWithDetailsRequest struct {
	XMLName xml.Name `xml:"http://thalesgroup.com/RTTI/2017-10-01/ldb/ GetDepBoardWithDetailsRequest"`

	NumRows    int    `xml:"numRows"`
	Crs        string `xml:"crs"`
	TimeOffset int32  `xml:"timeOffset,omitempty"`
	TimeWindow int32  `xml:"timeWindow,omitempty"`
}

type getDepBoardWithDetailsResponse struct {
	XMLName xml.Name `xml:"http://thalesgroup.com/RTTI/2017-10-01/ldb/ GetDepBoardWithDetailsResponse"`

	Result *stationBoard `xml:"GetStationBoardResult"`
}

type stationBoard struct {
	LocationName         *string       `xml:"locationName"`
	Crs                  *string       `xml:"crs"`
	AreServicesAvailable *bool         `xml:"areServicesAvailable"`
	NRCCMessages         *nrccMessages `xml:"nrccMessages"`
	TrainServices        *serviceItems `xml:"trainServices"`
}

type nrccMessages struct {
	Message []nrccMessage `xml:"message"`
}

type nrccMessage struct {
	Value string `xml:",chardata"`
}

type serviceItems struct {
	Service []serviceItem `xml:"service"`
}

type serviceItem struct {
	ServiceID               *string            `xml:"serviceID"`
	Std                     *string            `xml:"std"`
	Etd                     *string            `xml:"etd"`
	Platform                *string            `xml:"platform"`
	IsCancelled             *bool              `xml:"isCancelled"`
	Length                  *int               `xml:"length"`
	CancelReason            *string            `xml:"cancelReason"`
	DelayReason             *string            `xml:"delayReason"`
	AdhocAlerts             *adhocAlerts       `xml:"adhocAlerts"`
	SubsequentCallingPoints *callingPointLists `xml:"subsequentCallingPoints"`
}

type adhocAlerts struct {
	Text []string `xml:"adhocAlertText"`
}

type callingPointLists struct {
	CallingPointList []callingPointList `xml:"callingPointList"`
}

type callingPointList struct {
	CallingPoint []callingPoint `xml:"callingPoint"`
}

type callingPoint struct {
	LocationName *string      `xml:"locationName"`
	Crs          *string      `xml:"crs"`
	St           *string      `xml:"st"`
	Et           *string      `xml:"et"`
	At           *string      `xml:"at"`
	IsCancelled  *bool        `xml:"isCancelled"`
	AdhocAlerts  *adhocAlerts `xml:"adhocAlerts"`
}

// faultEnvelope picks a SOAP 1.1 fault out of an error response body.
type faultEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault *struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}
