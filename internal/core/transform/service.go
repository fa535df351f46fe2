package transform

import (
	"errors"
	"fmt"

	"github.com/samirrijal/railboard/internal/core/domain"
)

var errRequired = errors.New("required")

// IsValidService reports whether any subsequent calling point of rec is in
// names. It reads nothing but the calling point names, so records with
// irregular structure are simply rejected.
func IsValidService(rec domain.ServiceRecord, names domain.NameSet) bool {
	for _, cp := range rec.CallingPoints() {
		if cp.LocationName != nil && names.Has(*cp.LocationName) {
			return true
		}
	}
	return false
}

// MapCallingPoints maps the calling points of rec that are in names,
// keeping upstream order.
func MapCallingPoints(rec domain.ServiceRecord, names domain.NameSet) ([]domain.CallingPoint, error) {
	points := []domain.CallingPoint{}
	for i, raw := range rec.CallingPoints() {
		if raw.LocationName == nil || !names.Has(*raw.LocationName) {
			continue
		}
		cp, err := MapCallingPoint(raw)
		if err != nil {
			return nil, withPathPrefix(fmt.Sprintf("subsequentCallingPoints.callingPointList[0].callingPoint[%d]", i), err)
		}
		points = append(points, cp)
	}
	return points, nil
}

// MapCallingPoint maps a single raw calling point.
func MapCallingPoint(raw domain.CallingPointRecord) (domain.CallingPoint, error) {
	if raw.LocationName == nil {
		return domain.CallingPoint{}, domain.Malformed("locationName", errRequired)
	}
	at := domain.Deref(raw.At)
	if at == "" {
		if raw.Et == nil {
			return domain.CallingPoint{}, domain.Malformed("et", errRequired)
		}
		if normalize(*raw.Et) == etdOnTime && raw.St == nil {
			return domain.CallingPoint{}, domain.Malformed("st", errRequired)
		}
	}
	return domain.CallingPoint{
		Name:        *raw.LocationName,
		Time:        ResolveCallingPointTime(at, domain.Deref(raw.St), domain.Deref(raw.Et)),
		IsCancelled: domain.Truthy(raw.IsCancelled),
		Alert:       JoinAlerts(raw.AdhocAlerts),
	}, nil
}

// MapService maps a raw service record that already passed IsValidService.
// Length and platform are only set when upstream supplied a non-empty value.
func MapService(rec domain.ServiceRecord, names domain.NameSet) (domain.Service, error) {
	if rec.ServiceID == nil {
		return domain.Service{}, domain.Malformed("serviceID", errRequired)
	}
	if rec.Std == nil {
		return domain.Service{}, domain.Malformed("std", errRequired)
	}
	if rec.Etd == nil {
		return domain.Service{}, domain.Malformed("etd", errRequired)
	}

	t, err := ResolveServiceTime(*rec.Std, *rec.Etd)
	if err != nil {
		return domain.Service{}, err
	}
	status := domain.ServiceStatus{
		Status: ResolveStatus(*rec.Etd, domain.Truthy(rec.IsCancelled)),
		AbnormalityMessage: AggregateMessage(
			domain.Deref(rec.CancelReason),
			domain.Deref(rec.DelayReason),
			rec.AdhocAlerts,
		),
	}
	points, err := MapCallingPoints(rec, names)
	if err != nil {
		return domain.Service{}, err
	}

	svc := domain.NewService(*rec.ServiceID, status, t, points)
	if rec.Length != nil && *rec.Length != 0 {
		svc = svc.WithLength(*rec.Length)
	}
	if p := domain.Deref(rec.Platform); p != "" {
		svc = svc.WithPlatform(p)
	}
	return svc, nil
}

// withPathPrefix qualifies the path of a malformed payload error.
func withPathPrefix(prefix string, err error) error {
	var mp *domain.MalformedPayloadError
	if errors.As(err, &mp) {
		return domain.Malformed(prefix+"."+mp.Path, mp.Err)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
