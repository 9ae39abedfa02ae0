package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNamingService(t *testing.T) {
	for _, s := range []string{NAMING_ENS, NAMING_ADDRBOOK, NAMING_AUTO} {
		assert.NoError(t, ValidateNamingService(s))
	}
	assert.Error(t, ValidateNamingService("dns"))
}
