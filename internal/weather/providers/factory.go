package providers

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/harborline/voyage-weather/internal/config"
)

// Adapter identifiers accepted in provider configuration.
const (
	AdapterMarineCast = "marinecast"
	AdapterSeaState   = "seastate"
)

// New builds the resilient client for one configured provider. An unknown
// adapter identifier is a configuration error; there is no runtime registry
// to extend.
func New(settings config.ProviderSettings, log *logrus.Logger) (*Client, error) {
	var adapter Adapter
	switch settings.Adapter {
	case AdapterMarineCast:
		adapter = &marinecastAdapter{units: settings.Units}
	case AdapterSeaState:
		adapter = &seastateAdapter{}
	default:
		return nil, fmt.Errorf("unknown adapter %q for provider %q", settings.Adapter, settings.Name)
	}
	return newClient(settings, adapter, log, clockwork.NewRealClock()), nil
}
