package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct {
	Name string
}

func (c pingCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, _ ...interface{})  { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.errors = append(l.errors, msg) }

type recordingMetrics struct {
	names []string
	errs  []error
}

func (m *recordingMetrics) RecordCommandExecution(_ context.Context, name string, _ time.Duration, err error) {
	m.names = append(m.names, name)
	m.errs = append(m.errs, err)
}

func TestCommandBus_SendRunsHandlerThroughPipeline(t *testing.T) {
	logger := &recordingLogger{}
	metrics := &recordingMetrics{}
	b := NewCommandBus(LoggingMiddleware(logger), MetricsMiddleware(metrics))

	var got string
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		got = cmd.(pingCommand).Name
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{Name: "hello"}))
	assert.Equal(t, "hello", got)
	assert.Equal(t, []string{"Executing command", "Command succeeded"}, logger.infos)
	assert.Equal(t, []string{"pingCommand"}, metrics.names)
	assert.Nil(t, metrics.errs[0])
}

func TestCommandBus_RejectsDuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	noop := CommandHandlerFunc(func(context.Context, Command) error { return nil })

	require.NoError(t, b.Register(pingCommand{}, noop))
	err := b.Register(pingCommand{}, noop)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHandlerAlreadyRegistered)
}

func TestCommandBus_ValidatesBeforeDispatch(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		called = true
		return nil
	})))

	err := b.Send(context.Background(), pingCommand{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.False(t, called)
}

func TestCommandBus_UnknownCommand(t *testing.T) {
	err := NewCommandBus().Send(context.Background(), pingCommand{Name: "x"})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_HandlerErrorIsWrapped(t *testing.T) {
	sentinel := errors.New("boom")
	logger := &recordingLogger{}
	metrics := &recordingMetrics{}
	b := NewCommandBus(LoggingMiddleware(logger), MetricsMiddleware(metrics))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		return sentinel
	})))

	err := b.Send(context.Background(), pingCommand{Name: "x"})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, []string{"Command failed"}, logger.errors)
	assert.ErrorIs(t, metrics.errs[0], sentinel)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "pingCommand", TypeName(pingCommand{}))
	assert.Equal(t, "pingCommand", TypeName(&pingCommand{}))
	assert.Equal(t, "<nil>", TypeName(nil))
}
