package darwin

import "github.com/samirrijal/railboard/internal/core/domain"

// toDomain maps the SOAP board onto the raw board schema the transform reads.
// Optional elements stay nil so missing data is still detectable.
func toDomain(b *stationBoard) *domain.DepartureBoard {
	board := &domain.DepartureBoard{
		LocationName:         b.LocationName,
		Crs:                  b.Crs,
		AreServicesAvailable: b.AreServicesAvailable,
	}
	if b.NRCCMessages != nil {
		msgs := &domain.NRCCMessages{}
		for _, m := range b.NRCCMessages.Message {
			v := m.Value
			msgs.Message = append(msgs.Message, domain.NRCCMessage{Value: &v})
		}
		board.NRCCMessages = msgs
	}
	if b.TrainServices != nil {
		services := &domain.TrainServices{}
		for _, s := range b.TrainServices.Service {
			services.Service = append(services.Service, toServiceRecord(s))
		}
		board.TrainServices = services
	}
	return board
}

func toServiceRecord(s serviceItem) domain.ServiceRecord {
	rec := domain.ServiceRecord{
		ServiceID:    s.ServiceID,
		Std:          s.Std,
		Etd:          s.Etd,
		IsCancelled:  s.IsCancelled,
		Length:       s.Length,
		Platform:     s.Platform,
		CancelReason: s.CancelReason,
		DelayReason:  s.DelayReason,
		AdhocAlerts:  alerts(s.AdhocAlerts),
	}
	if s.SubsequentCallingPoints != nil {
		lists := &domain.CallingPointLists{}
		for _, l := range s.SubsequentCallingPoints.CallingPointList {
			var list domain.CallingPointList
			for _, cp := range l.CallingPoint {
				list.CallingPoint = append(list.CallingPoint, domain.CallingPointRecord{
					LocationName: cp.LocationName,
					Crs:          cp.Crs,
					St:           cp.St,
					Et:           cp.Et,
					At:           cp.At,
					IsCancelled:  cp.IsCancelled,
					AdhocAlerts:  alerts(cp.AdhocAlerts),
				})
			}
			lists.CallingPointList = append(lists.CallingPointList, list)
		}
		rec.SubsequentCallingPoints = lists
	}
	return rec
}

func alerts(a *adhocAlerts) []string {
	if a == nil {
		return nil
	}
	return a.Text
}
