package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockFeature struct {
	mock.Mock
}

func (m *mockFeature) Name() string {
	return m.Called().String(0)
}

func (m *mockFeature) IsEnabled() bool {
	return m.Called().Bool(0)
}

func (m *mockFeature) Load(app fiber.Router) error {
	return m.Called(app).Error(0)
}

func TestManager_LoadAll(t *testing.T) {
	app := fiber.New()

	t.Run("LoadsEnabledOnly", func(t *testing.T) {
		enabled := new(mockFeature)
		enabled.On("Name").Return("sync")
		enabled.On("IsEnabled").Return(true)
		enabled.On("Load", app).Return(nil)

		disabled := new(mockFeature)
		disabled.On("Name").Return("other")
		disabled.On("IsEnabled").Return(false)

		mgr := NewManager()
		mgr.Register(enabled)
		mgr.Register(disabled)

		assert.NoError(t, mgr.LoadAll(app))
		assert.Len(t, mgr.Features(), 2)
		enabled.AssertCalled(t, "Load", app)
		disabled.AssertNotCalled(t, "Load", mock.Anything)
	})

	t.Run("PropagatesError", func(t *testing.T) {
		f := new(mockFeature)
		f.On("Name").Return("sync")
		f.On("IsEnabled").Return(true)
		f.On("Load", app).Return(errors.New("boom"))

		mgr := NewManager()
		mgr.Register(f)

		err := mgr.LoadAll(app)
		assert.ErrorContains(t, err, "failed to load feature sync")
	})

	t.Run("DuplicateName", func(t *testing.T) {
		a := new(mockFeature)
		a.On("Name").Return("sync")
		a.On("IsEnabled").Return(false)
		b := new(mockFeature)
		b.On("Name").Return("sync")

		mgr := NewManager()
		mgr.Register(a)
		mgr.Register(b)

		assert.ErrorContains(t, mgr.LoadAll(app), "registered twice")
	})
}
