package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys used for instrumentation.
const (
	AttrOrigin        = attribute.Key("railboard.origin")
	AttrCRS           = attribute.Key("railboard.crs")
	AttrCallingPoints = attribute.Key("railboard.calling_points")
	AttrServices      = attribute.Key("railboard.services")
	AttrRunID         = attribute.Key("railboard.run_id")
)
