package sync

import (
	"context"
	"errors"
	"testing"

	"netsync/core/database"
	"netsync/core/reconcile"
	"netsync/feature/network/facts"
	"netsync/feature/network/inventory"
	"netsync/feature/network/models"
	"netsync/feature/network/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		Location:                 "dc1",
		Namespace:                "Global",
		DeviceStatus:             "Active",
		InterfaceStatus:          "Active",
		IPAddressStatus:          "Active",
		VLANStatus:               "Active",
		CableStatus:              "Connected",
		Port:                     22,
		TimeoutSeconds:           30,
		SyncVLANs:                true,
		SkipUnmatchedDestination: true,
		ContinueOnFailure:        true,
		Workers:                  4,
	}
}

func setupStore(t *testing.T) *inventory.Store {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := inventory.NewStore(db, zap.NewNop())
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func scenarioFacts() facts.Collection {
	return facts.Collection{
		"10.0.0.1": {
			Hostname:     "sw1",
			Serial:       "ABC",
			ManagementIP: "10.0.0.1",
			Interfaces: map[string]facts.InterfaceRecord{
				"Gi1": {
					AdminMode:     "trunk",
					TrunkingVLANs: facts.StringList{"100-101"},
					LinkStatus:    "up",
				},
			},
		},
	}
}

type failingCollector struct{}

func (failingCollector) Collect(context.Context, facts.Request) (facts.Collection, error) {
	return nil, errors.New("collector unreachable")
}

func TestRunScenario(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewService(testConfig(), facts.StaticCollector{Facts: scenarioFacts()}, store, nil, zap.NewNop())

	plan, err := svc.Plan(ctx, Request{})
	require.NoError(t, err)
	require.Equal(t, 6, plan.ChangeSet.Summary.Creates)

	var kinds []string
	for _, a := range plan.ChangeSet.Actions {
		assert.Equal(t, reconcile.ActionCreate, a.Type)
		kinds = append(kinds, a.Kind+" "+a.Key)
	}
	assert.Equal(t, []string{
		"device sw1__ABC",
		"vlan 100____dc1",
		"vlan 101____dc1",
		"interface sw1__ABC__Gi1",
		"tagged_vlan sw1__ABC__Gi1->100____dc1",
		"tagged_vlan sw1__ABC__Gi1->101____dc1",
	}, kinds)

	iface := plan.ChangeSet.Actions[3].Desired.(models.Interface)
	assert.Equal(t, models.ModeTagged, iface.Mode)
	assert.True(t, iface.Enabled)

	report, err := svc.Apply(ctx, plan, true)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, report.Status)
	assert.True(t, report.Applied)
	assert.Equal(t, 6, report.Executed)
	require.Len(t, report.Devices, 1)
	assert.Equal(t, DeviceSucceeded, report.Devices[0].Status)

	again, err := svc.Run(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, again.Status)
	assert.Empty(t, again.Actions)
	assert.Zero(t, again.Summary.Total())
	assert.False(t, again.Applied)
}

func TestRunDryRun(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewService(testConfig(), nil, store, nil, nil)

	report, err := svc.Run(ctx, Request{DryRun: true, Facts: scenarioFacts()})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.False(t, report.Applied)
	assert.Len(t, report.Actions, 6)

	g, err := store.LoadGraph(ctx, inventory.Scope{Location: "dc1", SyncVLANs: true})
	require.NoError(t, err)
	assert.Empty(t, g.Devices)
	assert.Empty(t, g.VLANs)
}

func TestRunFailureIsolation(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewService(testConfig(), nil, store, nil, nil)

	c := scenarioFacts()
	c["10.0.0.2"] = facts.Record{
		Hostname:     "sw2",
		Serial:       "DEF",
		ManagementIP: "10.0.0.2",
		Interfaces:   map[string]facts.InterfaceRecord{"Gi1": {LinkStatus: "up"}},
	}
	_, err := svc.Run(ctx, Request{Facts: c})
	require.NoError(t, err)

	// sw2 is unreachable now and reports no identity at all
	c["10.0.0.2"] = facts.Record{Failed: true, FailedReason: "timeout"}
	report, err := svc.Run(ctx, Request{Facts: c, SkipUnmatchedDestination: Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, StatusCompletedWithErrors, report.Status)
	assert.Empty(t, report.Actions)
	assert.Equal(t, 1, report.CountDevices(DeviceExcluded))
	assert.Equal(t, 1, report.CountDevices(DeviceSucceeded))

	g, err := store.LoadGraph(ctx, inventory.Scope{Location: "dc1"})
	require.NoError(t, err)
	assert.Contains(t, g.Devices, models.DeviceKey{Name: "sw2", Serial: "DEF"})
	assert.Len(t, g.Interfaces, 2)
}

func TestRunDeletesUnmatched(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewService(testConfig(), nil, store, nil, nil)

	_, err := svc.Run(ctx, Request{Facts: scenarioFacts()})
	require.NoError(t, err)

	c := scenarioFacts()
	gi1 := c["10.0.0.1"].Interfaces["Gi1"]
	gi1.TrunkingVLANs = facts.StringList{"100"}
	c["10.0.0.1"].Interfaces["Gi1"] = gi1

	kept, err := svc.Run(ctx, Request{Facts: c})
	require.NoError(t, err)
	assert.Empty(t, kept.Actions)
	assert.Equal(t, 2, kept.Summary.Skipped)

	removed, err := svc.Run(ctx, Request{Facts: c, SkipUnmatchedDestination: Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, 2, removed.Summary.Deletes)
	assert.Equal(t, 2, removed.Executed)
	assert.Equal(t, StatusCompleted, removed.Status)
}

func TestRunAbortsWithoutContinueOnFailure(t *testing.T) {
	store := setupStore(t)
	svc := NewService(testConfig(), nil, store, nil, nil)

	c := scenarioFacts()
	c["10.0.0.2"] = facts.Record{Failed: true}
	report, err := svc.Run(context.Background(), Request{Facts: c, ContinueOnFailure: Bool(false)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceFailed))
	require.NotNil(t, report)
	assert.Equal(t, StatusAborted, report.Status)
	assert.False(t, report.Applied)
	assert.Len(t, report.Devices, 2)
}

func TestRunCollectorFailure(t *testing.T) {
	svc := NewService(testConfig(), failingCollector{}, setupStore(t), nil, nil)

	report, err := svc.Run(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collector unreachable")
	require.NotNil(t, report)
	assert.Equal(t, StatusAborted, report.Status)
	assert.Empty(t, report.Devices)
}

func TestRunInvalidRequest(t *testing.T) {
	cfg := testConfig()
	cfg.Location = ""
	svc := NewService(cfg, nil, setupStore(t), nil, nil)

	report, err := svc.Run(context.Background(), Request{Facts: scenarioFacts()})
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestRunAddressScope(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewService(testConfig(), nil, store, nil, nil)

	c := scenarioFacts()
	c["10.0.0.2"] = facts.Record{Hostname: "sw2", Serial: "DEF", ManagementIP: "10.0.0.2"}
	_, err := svc.Run(ctx, Request{Facts: c})
	require.NoError(t, err)

	// Only sw1 is in scope, sw2 must not be considered unmatched
	delete(c, "10.0.0.2")
	report, err := svc.Run(ctx, Request{Facts: c, Addresses: " 10.0.0.1 ", SkipUnmatchedDestination: Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, report.Status)
	assert.Empty(t, report.Actions)
}

func TestKeepExcept(t *testing.T) {
	target := models.NewGraph()
	a := models.DeviceKey{Name: "a", Serial: "1"}
	b := models.DeviceKey{Name: "b", Serial: "2"}
	c := models.DeviceKey{Name: "c", Serial: "3"}
	d := models.DeviceKey{Name: "d", Serial: "4"}
	for _, k := range []models.DeviceKey{a, b, c, d} {
		target.AddDevice(models.Device{Key: k, PrimaryIP: "10.0.0." + k.Serial})
	}

	keep := keepExcept([]source.DeviceOutcome{
		{Key: "x", Device: a},
		{Key: "y", Device: models.DeviceKey{Name: "b"}},
		{Key: "10.0.0.3"},
	}, target)

	assert.False(t, keep(a))
	assert.False(t, keep(b))
	assert.False(t, keep(c))
	assert.True(t, keep(d))
}
