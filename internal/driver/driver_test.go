package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/config"
	"github.com/v0xg/pageobj/internal/driver"
)

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = "selenium"
	s, err := driver.Open(context.Background(), cfg, zap.NewNop(), false)
	assert.Nil(t, s)
	assert.ErrorContains(t, err, `unknown driver "selenium"`)
}
