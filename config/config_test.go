package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsMissingFields(t *testing.T) {
	got := applyDefaults(Config{})
	assert.Equal(t, defaults(), got)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	in := Config{
		POSBaseURL:        "http://localhost:9999",
		ListenAddr:        ":9000",
		RequestTimeoutSec: 5,
	}
	got := applyDefaults(in)
	assert.Equal(t, "http://localhost:9999", got.POSBaseURL)
	assert.Equal(t, ":9000", got.ListenAddr)
	assert.Equal(t, 5, got.RequestTimeoutSec)
	assert.Equal(t, defaults().ExportFolderPath, got.ExportFolderPath)
	assert.Equal(t, defaults().OperatorDBPath, got.OperatorDBPath)
}
