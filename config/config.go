package config

import (
	"fmt"
	"time"
)

const (
	NAMING_ENS      = "ens"
	NAMING_ADDRBOOK = "addrbook"
	NAMING_AUTO     = "auto"

	DEFAULT_BACKENDS = "sourcify-full,sourcify-partial"
)

var Network string

var (
	NamingService       string
	Backends            string
	SourcifyServer      string
	RetryFailedMetadata bool
	LookupTimeout       time.Duration
	CacheFile           string
	NoCache             bool

	LogLevel string
	LogJSON  bool

	Queries    []string
	JSONOutput bool
	Listen     string
)

func ValidateNamingService(s string) error {
	switch s {
	case NAMING_ENS, NAMING_ADDRBOOK, NAMING_AUTO:
		return nil
	}
	return fmt.Errorf(
		"unsupported naming service %q, valid values: %s, %s, %s",
		s, NAMING_ENS, NAMING_ADDRBOOK, NAMING_AUTO,
	)
}
