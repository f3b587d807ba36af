package types

import "strings"

// TransportMode is one of the canonical transport modes preference tables are keyed by.
type TransportMode string

const (
	TransportWalking       TransportMode = "Walking"
	TransportRentalBicycle TransportMode = "Rental Bicycle"
	TransportCityBus       TransportMode = "City Bus"
	TransportTaxi          TransportMode = "Taxi"
)

var transportAliases = map[string]TransportMode{
	"walking":        TransportWalking,
	"walk":           TransportWalking,
	"rental bicycle": TransportRentalBicycle,
	"bike":           TransportRentalBicycle,
	"city bus":       TransportCityBus,
	"bus":            TransportCityBus,
	"taxi":           TransportTaxi,
	"car":            TransportTaxi,
}

// NormalizeTransport maps a raw transport string onto the closed set of
// canonical modes. Unknown values fall back to Walking.
func NormalizeTransport(raw string) TransportMode {
	if mode, ok := transportAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mode
	}
	return TransportWalking
}
