package domain

import (
	"errors"
	"fmt"
)

// DepartureBoard is the raw departure board as returned upstream, before
// transformation. Every field is optional so that missing data is detected
// explicitly instead of being read as a zero value.
type DepartureBoard struct {
	LocationName         *string        `json:"locationName"`
	Crs                  *string        `json:"crs,omitempty"`
	AreServicesAvailable *bool          `json:"areServicesAvailable"`
	NRCCMessages         *NRCCMessages  `json:"nrccMessages"`
	TrainServices        *TrainServices `json:"trainServices"`
}

// NRCCMessages holds station-wide notices.
type NRCCMessages struct {
	Message []NRCCMessage `json:"message"`
}

type NRCCMessage struct {
	Value *string `json:"_value_1"`
}

// TrainServices holds the service records on the board.
type TrainServices struct {
	Service []ServiceRecord `json:"service"`
}

// ServiceRecord is one raw service with its subsequent calling points.
type ServiceRecord struct {
	ServiceID               *string            `json:"serviceID"`
	Std                     *string            `json:"std"`
	Etd                     *string            `json:"etd"`
	IsCancelled             *bool              `json:"isCancelled"`
	Length                  *int               `json:"length"`
	Platform                *string            `json:"platform"`
	CancelReason            *string            `json:"cancelReason"`
	DelayReason             *string            `json:"delayReason"`
	AdhocAlerts             []string           `json:"adhocAlerts"`
	SubsequentCallingPoints *CallingPointLists `json:"subsequentCallingPoints"`
}

type CallingPointLists struct {
	CallingPointList []CallingPointList `json:"callingPointList"`
}

type CallingPointList struct {
	CallingPoint []CallingPointRecord `json:"callingPoint"`
}

// CallingPointRecord is one raw calling point. At is only present once the
// train has called; Et is only present while it has not.
type CallingPointRecord struct {
	LocationName *string  `json:"locationName"`
	Crs          *string  `json:"crs,omitempty"`
	St           *string  `json:"st"`
	Et           *string  `json:"et"`
	At           *string  `json:"at"`
	IsCancelled  *bool    `json:"isCancelled"`
	AdhocAlerts  []string `json:"adhocAlerts"`
}

// Services returns the board's service records, or nil when the container
// is absent.
func (b *DepartureBoard) Services() []ServiceRecord {
	if b.TrainServices == nil {
		return nil
	}
	return b.TrainServices.Service
}

// Validate checks the board-level fields the transform requires.
// Service records are checked lazily, only once they pass filtering.
func (b *DepartureBoard) Validate() error {
	if b == nil {
		return Malformed("departureBoard", errors.New("board is nil"))
	}
	if b.LocationName == nil {
		return Malformed("locationName", errors.New("required"))
	}
	if b.NRCCMessages != nil {
		for i, m := range b.NRCCMessages.Message {
			if m.Value == nil {
				return Malformed(fmt.Sprintf("nrccMessages.message[%d]._value_1", i), errors.New("required"))
			}
		}
	}
	return nil
}

// CallingPoints returns the first subsequent calling point list, which is
// the one for the service's primary destination. It never fails on a
// record with irregular structure.
func (r ServiceRecord) CallingPoints() []CallingPointRecord {
	if r.SubsequentCallingPoints == nil || len(r.SubsequentCallingPoints.CallingPointList) == 0 {
		return nil
	}
	return r.SubsequentCallingPoints.CallingPointList[0].CallingPoint
}

// Deref returns the pointed-to string, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Truthy reports whether p points at true.
func Truthy(p *bool) bool {
	return p != nil && *p
}
