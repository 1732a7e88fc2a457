package besteffort

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestRunSwallowsErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	ok := Run(context.Background(), logg, "activity_log", func(context.Context) error {
		return errors.New("table missing")
	})

	assert.False(t, ok)
	assert.Contains(t, buf.String(), `"side_channel":"activity_log"`)
	assert.Contains(t, buf.String(), "table missing")
}

func TestRunRecoversPanics(t *testing.T) {
	ok := Run(context.Background(), logger.Nop(), "tax_line", func(context.Context) error {
		panic("boom")
	})
	assert.False(t, ok)
}

func TestRunSuccess(t *testing.T) {
	called := false
	ok := Run(context.Background(), nil, "noop", func(context.Context) error {
		called = true
		return nil
	})
	assert.True(t, ok)
	assert.True(t, called)
}
