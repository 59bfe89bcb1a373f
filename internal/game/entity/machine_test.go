package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Value int
	Log   []string
}

type add struct{ N int }

func (add) Type() string { return "ADD" }

type command struct{ Repeat int }

func reduceCounter(s counter, a add) counter {
	s.Value += a.N
	s.Log = append(s.Log[:len(s.Log):len(s.Log)], a.Type())
	return s
}

func TestMachine_DispatchIsPure(t *testing.T) {
	m := NewMachine[counter, add, command](counter{Log: []string{"init"}}, reduceCounter)

	before := m.State()
	m.Dispatch(add{N: 3}, nil)
	after := m.State()

	assert.Equal(t, 0, before.Value)
	assert.Equal(t, []string{"init"}, before.Log)
	assert.Equal(t, 3, after.Value)
	assert.Equal(t, []string{"init", "ADD"}, after.Log)
}

func TestMachine_ObserverSeesEveryDispatch(t *testing.T) {
	m := NewMachine[counter, add, command](counter{}, reduceCounter)

	var seen []int
	m.Observe(func(s counter, a add) { seen = append(seen, s.Value) })

	m.Dispatch(add{N: 1}, nil)
	m.Apply(add{N: 10})
	m.Dispatch(add{N: 2}, nil)

	assert.Equal(t, []int{1, 13}, seen)
}

func TestMachine_QueueHoldsOneAction(t *testing.T) {
	m := NewMachine[counter, add, command](counter{}, reduceCounter)
	assert.False(t, m.Busy())

	m.SaveAction(add{N: 1}, nil)
	m.SaveAction(add{N: 2}, &command{Repeat: 1})
	assert.True(t, m.Busy())

	order, ok := m.TakePending()
	require.True(t, ok)
	assert.Equal(t, 2, order.Action.N)
	require.NotNil(t, order.Next)
	assert.Equal(t, 1, order.Next.Repeat)

	_, ok = m.TakePending()
	assert.False(t, ok)
	assert.True(t, m.Busy(), "the deferred command outlives the queued action")
}

func TestMachine_SaveActionSetsNextCommand(t *testing.T) {
	m := NewMachine[counter, add, command](counter{}, reduceCounter)

	m.SaveAction(add{N: 1}, &command{Repeat: 3})
	next, ok := m.NextCommand()
	require.True(t, ok, "a queued order reports its follow-up before it runs")
	assert.Equal(t, 3, next.Repeat)
	assert.Zero(t, m.State().Value, "saving does not reduce")

	m.SaveAction(add{N: 1}, nil)
	_, ok = m.NextCommand()
	assert.False(t, ok, "a replacement order without a follow-up clears it")

	m.SaveAction(add{N: 1}, &command{Repeat: 3})
	order, ok := m.TakePending()
	require.True(t, ok)
	m.Dispatch(order.Action, order.Next)
	next, ok = m.NextCommand()
	require.True(t, ok)
	assert.Equal(t, 3, next.Repeat)
	assert.Equal(t, 1, m.State().Value)
}

func TestMachine_NextCommand(t *testing.T) {
	m := NewMachine[counter, add, command](counter{}, reduceCounter)

	_, ok := m.NextCommand()
	assert.False(t, ok)

	m.Dispatch(add{N: 1}, &command{Repeat: 4})
	next, ok := m.NextCommand()
	require.True(t, ok)
	assert.Equal(t, 4, next.Repeat)
	assert.True(t, m.Busy())

	m.Apply(add{N: 1})
	_, ok = m.NextCommand()
	assert.True(t, ok, "Apply keeps the deferred command")

	m.Dispatch(add{N: 1}, nil)
	_, ok = m.NextCommand()
	assert.False(t, ok, "a dispatch without a next command clears it")
}

func TestMachine_Cancel(t *testing.T) {
	m := NewMachine[counter, add, command](counter{}, reduceCounter)
	m.Dispatch(add{N: 1}, &command{})
	m.SaveAction(add{N: 1}, nil)

	m.Cancel()
	assert.False(t, m.Busy())
	assert.Equal(t, 1, m.State().Value)
}

func TestMachine_UpdateKeepsNextCommand(t *testing.T) {
	m := NewMachine[counter, add, command](counter{}, reduceCounter)

	var seen int
	m.Observe(func(counter, add) { seen++ })

	m.Dispatch(add{N: 1}, &command{Repeat: 2})
	m.Update(add{N: 5})

	assert.Equal(t, 6, m.State().Value)
	assert.Equal(t, 2, seen)
	next, ok := m.NextCommand()
	require.True(t, ok)
	assert.Equal(t, 2, next.Repeat)
}
