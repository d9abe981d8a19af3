package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestArm_StopsRunawayLoop(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()

	release := arm(L, 1_000)
	err := L.DoString(`while true do end`)
	release()
	require.Error(t, err)
	assert.Nil(t, L.Context(), "release removes the budget")
}

func TestArm_FreshBudgetPerExecution(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	require.NoError(t, L.DoString(`function work() local n = 0 for i = 1, 50 do n = n + i end return n end`))

	// Each call fits the budget on its own; together they would not.
	for i := 0; i < 20; i++ {
		release := arm(L, 2_000)
		err := L.DoString(`work()`)
		release()
		require.NoError(t, err, "call %d", i)
	}
}

func TestArm_NonPositiveLimitUsesDefault(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	release := arm(L, 0)
	defer release()
	assert.NoError(t, L.DoString(`local n = 0 for i = 1, 1000 do n = n + 1 end`))
}

func TestPropertyCountingContext_CancelsAfterLimit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 500).Draw(rt, "limit")
		ctx, cancel := newCountingContext(limit)
		defer cancel()
		for i := 1; i < limit; i++ {
			select {
			case <-ctx.Done():
				rt.Fatalf("cancelled after %d of %d calls", i, limit)
			default:
			}
		}
		select {
		case <-ctx.Done():
		default:
			rt.Fatalf("not cancelled after %d calls", limit)
		}
	})
}
