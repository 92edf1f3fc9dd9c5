package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vantled/balikbayani-sub001/internal/schema"
)

func cleanGuard(schema.Step) map[string]string { return nil }

func TestNavigatorHappyPath(t *testing.T) {
	n := NewNavigator()
	assert.Equal(t, schema.StepInfo, n.Current())

	step, err := n.Next(cleanGuard)
	require.NoError(t, err)
	assert.Equal(t, schema.StepDocuments, step)

	step, err = n.Next(cleanGuard)
	require.NoError(t, err)
	assert.Equal(t, schema.StepReview, step)

	// Review is terminal; Next is a no-op.
	step, err = n.Next(cleanGuard)
	require.NoError(t, err)
	assert.Equal(t, schema.StepReview, step)
}

func TestNavigatorBlockedStaysPut(t *testing.T) {
	n := NewNavigator()
	guard := func(s schema.Step) map[string]string {
		if s == schema.StepInfo {
			return map[string]string{"email": "Email Address is required"}
		}
		return nil
	}

	step, err := n.Next(guard)
	assert.ErrorIs(t, err, ErrStepBlocked)
	assert.Equal(t, schema.StepInfo, step)
	assert.Equal(t, schema.StepInfo, n.Current())
	assert.Contains(t, n.Errors(), "email")
}

func TestNavigatorRoutesBackToFirstFailingStep(t *testing.T) {
	n := NewNavigator()
	_, err := n.Next(cleanGuard)
	require.NoError(t, err)
	require.Equal(t, schema.StepDocuments, n.Current())

	// Info regressed after the user advanced; the documents→review attempt
	// must land back on info.
	guard := func(s schema.Step) map[string]string {
		if s == schema.StepInfo {
			return map[string]string{"email": "Email Address is required"}
		}
		return nil
	}
	step, err := n.Next(guard)
	assert.ErrorIs(t, err, ErrStepBlocked)
	assert.Equal(t, schema.StepInfo, step)
	assert.Equal(t, schema.StepInfo, n.Current())
}

func TestNavigatorBackUnconditional(t *testing.T) {
	n := NewNavigator()
	_, err := n.Next(cleanGuard)
	require.NoError(t, err)
	_, err = n.Next(cleanGuard)
	require.NoError(t, err)
	require.Equal(t, schema.StepReview, n.Current())

	assert.Equal(t, schema.StepDocuments, n.Back())
	assert.Equal(t, schema.StepInfo, n.Back())
	assert.Equal(t, schema.StepInfo, n.Back()) // entry step stays

	// Back clears transient errors.
	blocked := func(schema.Step) map[string]string {
		return map[string]string{"email": "bad"}
	}
	_, _ = n.Next(blocked)
	require.NotEmpty(t, n.Errors())
	n.Back()
	assert.Empty(t, n.Errors())
}

func TestNavigatorRestore(t *testing.T) {
	n := NewNavigator()
	n.Restore(schema.StepDocuments)
	assert.Equal(t, schema.StepDocuments, n.Current())

	n.Restore(schema.Step("bogus"))
	assert.Equal(t, schema.StepInfo, n.Current())
}
