package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestWithDefaults(t *testing.T) {
	req := Request{Location: "dc2", SyncVRFs: Bool(true)}.WithDefaults(testConfig())

	assert.Equal(t, "dc2", req.Location)
	assert.Equal(t, "Global", req.Namespace)
	assert.Equal(t, "Active", req.DeviceStatus)
	assert.Equal(t, 22, req.Port)
	assert.Equal(t, 30, req.TimeoutSeconds)
	assert.True(t, *req.SyncVLANs)
	assert.True(t, *req.SyncVRFs)
	assert.False(t, *req.SyncCables)
	assert.True(t, *req.SkipUnmatchedDestination)
	assert.True(t, *req.ContinueOnFailure)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{name: "valid", req: Request{Location: "dc1", Port: 22, TimeoutSeconds: 10}},
		{name: "missing location", req: Request{Port: 22, TimeoutSeconds: 10}, wantErr: "location is required"},
		{name: "bad port", req: Request{Location: "dc1", Port: 70000, TimeoutSeconds: 10}, wantErr: "port 70000"},
		{name: "bad timeout", req: Request{Location: "dc1", Port: 22, TimeoutSeconds: -1}, wantErr: "timeout -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRequestAddressList(t *testing.T) {
	req := Request{Addresses: "10.0.0.1, 10.0.0.2 ,  sw3"}
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "sw3"}, req.AddressList())
	assert.Equal(t, req.AddressList(), req.factsRequest().Addresses)
}

func TestRequestFingerprint(t *testing.T) {
	a := Request{Location: "dc1"}.WithDefaults(testConfig())
	b := Request{Location: "dc1"}.WithDefaults(testConfig())
	c := Request{Location: "dc1", DryRun: true}.WithDefaults(testConfig())

	assert.Equal(t, a.fingerprint(), b.fingerprint())
	assert.NotEqual(t, a.fingerprint(), c.fingerprint())
}
