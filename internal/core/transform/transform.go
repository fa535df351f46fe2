package transform

import (
	"fmt"
	"strings"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// Transform converts a raw departure board into a station and the services
// that call at one of names. Services keep upstream order. A malformed
// field fails the whole board; nothing is silently skipped.
func Transform(board *domain.DepartureBoard, names domain.NameSet) (domain.StationAndServices, error) {
	if err := board.Validate(); err != nil {
		return domain.StationAndServices{}, err
	}

	services, err := MapServices(board.Services(), names)
	if err != nil {
		return domain.StationAndServices{}, err
	}
	return domain.StationAndServices{
		Station:  MapStation(board),
		Services: services,
	}, nil
}

// MapStation builds the station from a validated board. Services count as
// available unless upstream says explicitly they are not.
func MapStation(board *domain.DepartureBoard) domain.Station {
	return domain.Station{
		Name:                 domain.Deref(board.LocationName),
		AreServicesAvailable: board.AreServicesAvailable == nil || *board.AreServicesAvailable,
		Message:              stationMessage(board.NRCCMessages),
	}
}

func stationMessage(msgs *domain.NRCCMessages) string {
	if msgs == nil || len(msgs.Message) == 0 {
		return ""
	}
	lines := make([]string, 0, len(msgs.Message))
	for _, m := range msgs.Message {
		lines = append(lines, domain.Deref(m.Value))
	}
	return strings.Join(lines, "\n")
}

// MapServices filters records to those calling at names and maps them.
// The result is never nil.
func MapServices(records []domain.ServiceRecord, names domain.NameSet) ([]domain.Service, error) {
	services := []domain.Service{}
	for i, rec := range records {
		if !IsValidService(rec, names) {
			continue
		}
		svc, err := MapService(rec, names)
		if err != nil {
			return nil, withPathPrefix(fmt.Sprintf("trainServices.service[%d]", i), err)
		}
		services = append(services, svc)
	}
	return services, nil
}
