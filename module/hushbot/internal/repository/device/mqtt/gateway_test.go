package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error, completed bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if completed {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	pahomqtt.Client
	published []published
	token     *fakeToken
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) pahomqtt.Token {
	c.published = append(c.published, published{topic: topic, payload: payload.([]byte)})
	if c.token != nil {
		return c.token
	}
	return newFakeToken(nil, true)
}

func TestGateway_StateDefaultsToDeviceID(t *testing.T) {
	g := NewGateway(&fakeClient{}, "pixel-7")
	state := g.State()
	assert.Equal(t, "pixel-7", state.DeviceID)
	assert.False(t, state.PolicyAccess)

	g.UpdateState(domain.DeviceState{DeviceID: "pixel-7", APILevel: 34, PolicyAccess: true})
	assert.True(t, g.State().PolicyAccess)
	assert.Equal(t, 34, g.State().APILevel)
}

func TestGateway_SetInterruptionFilter(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, "pixel-7")

	require.NoError(t, g.SetInterruptionFilter(context.Background(), domain.FilterNone))
	require.Len(t, client.published, 1)
	assert.Equal(t, "/hushbot/device/pixel-7/command", client.published[0].topic)
	assert.JSONEq(t, `{"type":"set_interruption_filter","filter":3}`, string(client.published[0].payload))
}

func TestGateway_OpenSettings(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, "pixel-7")

	require.NoError(t, g.OpenSettings(context.Background(), domain.SettingsPolicyAccess))
	assert.JSONEq(t, `{"type":"open_settings","screen":"notification_policy_access"}`, string(client.published[0].payload))
}

func TestGateway_Notify(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, "pixel-7")

	n := domain.Notification{ID: "n1", Kind: domain.NotificationToast, Message: "hello", Long: true}
	require.NoError(t, g.Notify(context.Background(), n))
	assert.Equal(t, "/hushbot/device/pixel-7/notify", client.published[0].topic)

	var got domain.Notification
	require.NoError(t, json.Unmarshal(client.published[0].payload, &got))
	assert.Equal(t, n, got)
}

func TestGateway_PublishError(t *testing.T) {
	client := &fakeClient{token: newFakeToken(errors.New("not connected"), true)}
	g := NewGateway(client, "pixel-7")

	err := g.SetInterruptionFilter(context.Background(), domain.FilterAll)
	assert.ErrorContains(t, err, "not connected")
}

func TestGateway_PublishContextCancelled(t *testing.T) {
	client := &fakeClient{token: newFakeToken(nil, false)}
	g := NewGateway(client, "pixel-7")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Notify(ctx, domain.Notification{Message: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
