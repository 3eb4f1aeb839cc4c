package inventory

import (
	"context"
	"errors"
	"testing"

	"netsync/core/database"
	"netsync/core/reconcile"
	"netsync/feature/network/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	sw1 = models.DeviceKey{Name: "sw1", Serial: "ABC"}
	sw2 = models.DeviceKey{Name: "sw2", Serial: "DEF"}

	sw1Gi1 = models.InterfaceKey{Device: sw1, Name: "Gi1"}
	sw1Gi2 = models.InterfaceKey{Device: sw1, Name: "Gi2"}
	sw2Gi1 = models.InterfaceKey{Device: sw2, Name: "Gi1"}

	vlan100 = models.VLANKey{VID: 100, Location: "dc1"}
	vlan101 = models.VLANKey{VID: 101, Location: "dc1"}
	vlan20  = models.VLANKey{VID: 20, Name: "users", Location: "dc1"}
	mgmt    = models.VRFKey{Name: "mgmt", Namespace: "Global"}
)

func fullScope() Scope {
	return Scope{
		Location:   "dc1",
		Namespace:  "Global",
		SyncVLANs:  true,
		SyncVRFs:   true,
		SyncCables: true,
	}
}

func modelScope() models.Scope {
	return models.Scope{
		Location:   "dc1",
		Namespace:  "Global",
		SyncVLANs:  true,
		SyncVRFs:   true,
		SyncCables: true,
	}
}

func setupStore(t *testing.T) *Store {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := NewStore(db, zap.NewNop())
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return NewStore(gormDB, nil), mock
}

func sourceGraph() *models.Graph {
	g := models.NewGraph()
	for _, d := range []models.DeviceKey{sw1, sw2} {
		g.AddDevice(models.Device{
			Key:       d,
			Vendor:    "Cisco",
			Model:     "C9300",
			Platform:  "cisco_ios",
			PrimaryIP: "10.0.0.1",
			Role:      "access",
			Status:    "Active",
			Location:  "dc1",
		})
	}
	g.AddVRF(models.VRF{Key: mgmt, RD: "65000:1"})
	g.AddVLAN(models.VLAN{Key: vlan100, Status: "Active"})
	g.AddVLAN(models.VLAN{Key: vlan101, Status: "Active"})
	g.AddVLAN(models.VLAN{Key: vlan20, Status: "Active"})
	g.AddInterface(models.Interface{Key: sw1Gi1, Enabled: true, Mode: models.ModeTagged, Status: "Active"})
	g.AddInterface(models.Interface{
		Key:          sw1Gi2,
		MACAddress:   "aa:bb:cc:dd:ee:ff",
		Mode:         models.ModeAccess,
		Status:       "Active",
		UntaggedVLAN: vlan20,
		VRF:          mgmt,
	})
	g.AddInterface(models.Interface{Key: sw2Gi1, Enabled: true, Status: "Active"})
	g.AddTaggedVLAN(models.TaggedVLAN{Key: models.TaggedVLANKey{Interface: sw1Gi1, VLAN: vlan100}})
	g.AddTaggedVLAN(models.TaggedVLAN{Key: models.TaggedVLANKey{Interface: sw1Gi1, VLAN: vlan101}})
	g.AddIPAddress(models.IPAddress{
		Host:         "10.1.1.1",
		PrefixLength: 24,
		IPVersion:    4,
		Status:       "Active",
		Namespace:    "Global",
		Interface:    sw1Gi2,
	})
	g.AddCable(models.Cable{Key: models.NewCableKey(sw2Gi1, sw1Gi1), Status: "Connected"})
	return g
}

func apply(t *testing.T, s *Store, cs *reconcile.ChangeSet) *reconcile.ApplyResult {
	res, err := reconcile.ApplyPlan(context.Background(), cs, s, reconcile.ApplyOptions{Confirmed: true, Workers: 4})
	require.NoError(t, err)
	for _, o := range res.Failed {
		t.Errorf("action %s %s %s failed: %s", o.Action.Type, o.Action.Kind, o.Action.Key, o.Error)
	}
	return res
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	empty, err := s.LoadGraph(ctx, fullScope())
	require.NoError(t, err)
	assert.Empty(t, empty.Devices)

	source := sourceGraph()
	cs := models.Plan(source, empty, modelScope(), reconcile.DefaultOptions())
	assert.Equal(t, 13, cs.Summary.Creates)

	res := apply(t, s, cs)
	assert.Equal(t, 13, res.Executed())

	loaded, err := s.LoadGraph(ctx, fullScope())
	require.NoError(t, err)
	if diff := deep.Equal(source, loaded); diff != nil {
		t.Error(diff)
	}

	again := models.Plan(source, loaded, modelScope(), reconcile.DefaultOptions())
	assert.True(t, again.Empty())
}

func TestStoreUpdateOnlyChangedFields(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	source := sourceGraph()
	apply(t, s, models.Plan(source, models.NewGraph(), modelScope(), reconcile.DefaultOptions()))

	d := source.Devices[sw1]
	d.Platform = "cisco_xe"
	source.AddDevice(d)
	i := source.Interfaces[sw1Gi2]
	i.UntaggedVLAN = vlan100
	i.VRF = models.VRFKey{}
	source.AddInterface(i)
	a := source.IPAddresses["10.1.1.1"]
	a.Interface = sw1Gi1
	source.AddIPAddress(a)

	loaded, err := s.LoadGraph(ctx, fullScope())
	require.NoError(t, err)
	cs := models.Plan(source, loaded, modelScope(), reconcile.DefaultOptions())
	assert.Equal(t, 3, cs.Summary.Updates)
	apply(t, s, cs)

	var rec DeviceRecord
	require.NoError(t, s.db.Where("name = ?", "sw1").First(&rec).Error)
	assert.Equal(t, "cisco_xe", rec.Platform)
	assert.Equal(t, "Cisco", rec.Vendor)

	loaded, err = s.LoadGraph(ctx, fullScope())
	require.NoError(t, err)
	if diff := deep.Equal(source, loaded); diff != nil {
		t.Error(diff)
	}
}

func TestStoreDeletes(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	source := sourceGraph()
	apply(t, s, models.Plan(source, models.NewGraph(), modelScope(), reconcile.DefaultOptions()))

	delete(source.IPAddresses, "10.1.1.1")
	delete(source.TaggedVLANs, models.TaggedVLANKey{Interface: sw1Gi1, VLAN: vlan101})
	for k := range source.Cables {
		delete(source.Cables, k)
	}

	loaded, err := s.LoadGraph(ctx, fullScope())
	require.NoError(t, err)

	kept := models.Plan(source, loaded, modelScope(), reconcile.DefaultOptions())
	assert.True(t, kept.Empty())
	assert.Equal(t, 3, kept.Summary.Skipped)

	cs := models.Plan(source, loaded, modelScope(), reconcile.Options{SkipUnmatchedDestination: false})
	assert.Equal(t, 3, cs.Summary.Deletes)
	apply(t, s, cs)

	loaded, err = s.LoadGraph(ctx, fullScope())
	require.NoError(t, err)
	if diff := deep.Equal(source, loaded); diff != nil {
		t.Error(diff)
	}
}

func TestLoadGraphScope(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	apply(t, s, models.Plan(sourceGraph(), models.NewGraph(), modelScope(), reconcile.DefaultOptions()))

	t.Run("explicit devices", func(t *testing.T) {
		scope := fullScope()
		scope.Devices = []models.DeviceKey{sw1, {Name: "sw2", Serial: "OTHER"}}
		g, err := s.LoadGraph(ctx, scope)
		require.NoError(t, err)
		assert.Len(t, g.Devices, 1)
		assert.Len(t, g.Interfaces, 2)
		assert.Empty(t, g.Cables)
		assert.Empty(t, g.HeldVLANs)
	})

	t.Run("role filter", func(t *testing.T) {
		scope := fullScope()
		scope.Role = "core"
		g, err := s.LoadGraph(ctx, scope)
		require.NoError(t, err)
		assert.Empty(t, g.Devices)
		assert.Len(t, g.VLANs, 3)
		assert.Equal(t, map[models.VLANKey]struct{}{vlan100: {}, vlan101: {}, vlan20: {}}, g.HeldVLANs)
		assert.Equal(t, map[models.VRFKey]struct{}{mgmt: {}}, g.HeldVRFs)
	})

	t.Run("disabled kinds", func(t *testing.T) {
		g, err := s.LoadGraph(ctx, Scope{Location: "dc1", Namespace: "Global"})
		require.NoError(t, err)
		assert.Empty(t, g.VLANs)
		assert.Empty(t, g.VRFs)
		assert.Empty(t, g.TaggedVLANs)
		assert.Empty(t, g.Cables)
		assert.True(t, g.Interfaces[sw1Gi2].UntaggedVLAN.IsZero())
		assert.True(t, g.Interfaces[sw1Gi2].VRF.IsZero())
		assert.Len(t, g.IPAddresses, 1)
	})

	t.Run("other location", func(t *testing.T) {
		g, err := s.LoadGraph(ctx, Scope{Location: "dc2", SyncVLANs: true})
		require.NoError(t, err)
		assert.Empty(t, g.Devices)
		assert.Empty(t, g.VLANs)
	})
}

func TestCreateMissingDependency(t *testing.T) {
	s := setupStore(t)
	err := s.Create(context.Background(), reconcile.Action{
		Type:    reconcile.ActionCreate,
		Kind:    models.KindInterface.Name,
		Key:     sw1Gi1.String(),
		Desired: models.Interface{Key: sw1Gi1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "device sw1__ABC")
}

func TestCreateUnsupported(t *testing.T) {
	s := setupStore(t)
	err := s.Create(context.Background(), reconcile.Action{Type: reconcile.ActionCreate, Kind: "rack", Desired: "rack-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported entity string")
}

func TestCheckSchema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := NewStore(db, nil)

	problems, err := s.CheckSchema()
	require.NoError(t, err)
	require.Len(t, problems, 7)
	assert.Equal(t, "cables", problems[0].Table)
	assert.Equal(t, []string{"id", "a_interface_id", "b_interface_id", "status"}, problems[0].Missing)

	require.NoError(t, s.Migrate(context.Background()))
	problems, err = s.CheckSchema()
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCreateDevice_MySQL(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `devices`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.Create(context.Background(), reconcile.Action{
		Type:    reconcile.ActionCreate,
		Kind:    models.KindDevice.Name,
		Key:     sw1.String(),
		Desired: models.Device{Key: sw1, Status: "Active"},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDeviceNotFound_MySQL(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `devices`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), reconcile.Action{
		Type:    reconcile.ActionDelete,
		Kind:    models.KindDevice.Name,
		Key:     sw1.String(),
		Current: models.Device{Key: sw1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
