package bus

import (
	"context"
	"testing"

	pkgerrors "shoplist-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCommand struct {
	invalid bool
}

func (c fakeCommand) Validate() error {
	if c.invalid {
		return pkgerrors.NewValidationError("bad command")
	}
	return nil
}

func TestCommandBus_ExecuteDispatchesByType(t *testing.T) {
	bus := NewCommandBus()

	var got Command
	err := bus.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		got = cmd
		return "done", nil
	}))
	assert.NoError(t, err)

	result, err := bus.Execute(context.Background(), fakeCommand{})

	assert.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, fakeCommand{}, got)
}

func TestCommandBus_ValidatesBeforeDispatch(t *testing.T) {
	bus := NewCommandBus()

	called := false
	bus.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		called = true
		return nil, nil
	}))

	_, err := bus.Execute(context.Background(), fakeCommand{invalid: true})

	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, called, "invalid commands must never reach a handler")
}

func TestCommandBus_UnregisteredCommand(t *testing.T) {
	bus := NewCommandBus()

	_, err := bus.Execute(context.Background(), fakeCommand{})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	bus := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, nil
	})

	assert.NoError(t, bus.Register(fakeCommand{}, handler))
	assert.Error(t, bus.Register(fakeCommand{}, handler))
}

func TestChain_AppliesOutermostFirst(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	handler := Chain(CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	}), mw("outer"), mw("inner"))

	handler.Handle(context.Background(), fakeCommand{})

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddleware_PassesResultThrough(t *testing.T) {
	handler := Chain(CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return 42, nil
	}), LoggingMiddleware(zap.NewNop()))

	result, err := handler.Handle(context.Background(), fakeCommand{})

	assert.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestMetricsMiddleware_NilMetricsIsSafe(t *testing.T) {
	handler := Chain(CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, nil
	}), MetricsMiddleware(nil))

	_, err := handler.Handle(context.Background(), fakeCommand{})

	assert.NoError(t, err)
}
