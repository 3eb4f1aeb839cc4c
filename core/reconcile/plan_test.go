package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingMutator records the order in which actions reach it and fails selected keys.
type recordingMutator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (m *recordingMutator) record(a Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, string(a.Type)+":"+a.Key)
	return m.fail[a.Key]
}

func (m *recordingMutator) Create(ctx context.Context, a Action) error { return m.record(a) }
func (m *recordingMutator) Update(ctx context.Context, a Action) error { return m.record(a) }
func (m *recordingMutator) Delete(ctx context.Context, a Action) error { return m.record(a) }

type mockMutator struct {
	mock.Mock
}

func (m *mockMutator) Create(ctx context.Context, a Action) error { return m.Called(ctx, a).Error(0) }
func (m *mockMutator) Update(ctx context.Context, a Action) error { return m.Called(ctx, a).Error(0) }
func (m *mockMutator) Delete(ctx context.Context, a Action) error { return m.Called(ctx, a).Error(0) }

func sampleChangeSet() *ChangeSet {
	p := NewPlanner(Options{})
	Diff(p, kindParent,
		map[testKey]testEntity{"dev1": {Owner: "dev1"}, "dev2": {Owner: "dev2"}},
		map[testKey]testEntity{"old": {Owner: "old"}},
	)
	Diff(p, kindChild,
		map[testKey]testEntity{"dev1/if1": {Owner: "dev1"}, "dev2/if1": {Owner: "dev2"}},
		map[testKey]testEntity{},
	)
	return p.Plan()
}

func TestApplyPlan_ConfirmationGating(t *testing.T) {
	tests := []struct {
		name string
		opts ApplyOptions
	}{
		{"NotConfirmed", ApplyOptions{Confirmed: false}},
		{"DryRun", ApplyOptions{Confirmed: true, DryRun: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mockMutator)
			result, err := ApplyPlan(context.Background(), sampleChangeSet(), m, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 0, result.Executed())
			m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestApplyPlan_StageOrder(t *testing.T) {
	m := &recordingMutator{}
	cs := sampleChangeSet()

	result, err := ApplyPlan(context.Background(), cs, m, ApplyOptions{Confirmed: true, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Executed())
	assert.Empty(t, result.Failed)

	// parents before children, deletes last; order inside a stage is unspecified
	require.Len(t, m.calls, 5)
	assert.ElementsMatch(t, []string{"create:dev1", "create:dev2"}, m.calls[0:2])
	assert.ElementsMatch(t, []string{"create:dev1/if1", "create:dev2/if1"}, m.calls[2:4])
	assert.Equal(t, "delete:old", m.calls[4])
}

func TestApplyPlan_FailureIsolation(t *testing.T) {
	m := &recordingMutator{fail: map[string]error{"dev2": errors.New("duplicate serial")}}
	cs := sampleChangeSet()

	result, err := ApplyPlan(context.Background(), cs, m, ApplyOptions{Confirmed: true, Workers: 1})
	require.NoError(t, err)

	var applied []string
	for _, o := range result.Applied {
		applied = append(applied, o.Action.Key)
	}
	assert.ElementsMatch(t, []string{"dev1", "dev1/if1", "old"}, applied)

	require.Len(t, result.Failed, 2)
	failedScopes := result.FailedScopes()
	require.Len(t, failedScopes["dev2"], 2)
	assert.EqualError(t, failedScopes["dev2"][0].Err(), "duplicate serial")
	assert.ErrorIs(t, failedScopes["dev2"][1].Err(), ErrDependencyFailed)
	assert.Equal(t, ErrDependencyFailed.Error(), failedScopes["dev2"][1].Error)

	// the dependent create was never sent to the mutator
	assert.NotContains(t, m.calls, "create:dev2/if1")
}

func TestApplyPlan_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := new(mockMutator)
	result, err := ApplyPlan(ctx, sampleChangeSet(), m, ApplyOptions{Confirmed: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Executed())
	assert.Len(t, result.Failed, 5)
	m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyPlan_PanicRecorded(t *testing.T) {
	cs := &ChangeSet{Actions: []Action{{Type: ActionUpdate, Kind: "parent", Rank: 1, Key: "dev1"}}}

	m := new(mockMutator)
	m.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		panic("nil row")
	}).Return(nil)

	result, err := ApplyPlan(context.Background(), cs, m, ApplyOptions{Confirmed: true})
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Error, "panicked")
}

func TestApplyPlan_NoMutator(t *testing.T) {
	_, err := ApplyPlan(context.Background(), sampleChangeSet(), nil, ApplyOptions{Confirmed: true})
	assert.Error(t, err)
}
