package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCommand struct {
	Fail bool
}

func (c testCommand) Validate() error {
	if c.Fail {
		return errors.New("invalid")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBus_Dispatch(t *testing.T) {
	b := NewCommandBus()
	var handled bool
	err := b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	}))
	require.NoError(t, err)

	err = b.Send(context.Background(), testCommand{})

	require.NoError(t, err)
	assert.True(t, handled)
}

func TestCommandBus_ValidationRunsBeforeHandler(t *testing.T) {
	b := NewCommandBus()
	var handled bool
	require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	})))

	err := b.Send(context.Background(), testCommand{Fail: true})

	require.Error(t, err)
	assert.False(t, handled)
}

func TestCommandBus_UnregisteredCommand(t *testing.T) {
	b := NewCommandBus()

	err := b.Send(context.Background(), otherCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })
	require.NoError(t, b.Register(testCommand{}, handler))

	err := b.Register(testCommand{}, handler)

	assert.Error(t, err)
}

func TestCommandBus_HandlerErrorIsWrapped(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return errors.New("boom")
	})))

	err := b.Send(context.Background(), testCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestPipeline_AppliesMiddlewareInOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	p := NewPipeline(mw("outer"), mw("inner"))
	handler := p.Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		order = append(order, "handler")
		return nil
	}))

	require.NoError(t, handler.Handle(context.Background(), testCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
