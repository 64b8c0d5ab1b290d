package mqtt

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type mockToken struct {
	err error
}

func (t *mockToken) Wait() bool                       { return true }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *mockToken) Error() error                     { return t.err }
func (t *mockToken) Done() <-chan struct{}            { return make(chan struct{}) }

type mockClient struct {
	connected    bool
	connectErr   error
	publishErr   error
	disconnected bool

	publishedTopic   string
	publishedQoS     byte
	publishedRetain  bool
	publishedPayload []byte
}

func (m *mockClient) IsConnected() bool { return m.connected }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr == nil {
		m.connected = true
	}
	return &mockToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(quiesce uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.publishedTopic = topic
	m.publishedQoS = qos
	m.publishedRetain = retained
	m.publishedPayload = payload.([]byte)
	return &mockToken{err: m.publishErr}
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return mc }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestNewPahoPublisherConnectError(t *testing.T) {
	withMockClient(t, &mockClient{connectErr: errors.New("broker unreachable")})
	if _, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestPublishUsesConfiguredTopic(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", Topic: "fleet/rows", QoS: 1, Retain: true})
	if err != nil {
		t.Fatalf("NewPahoPublisher: %v", err)
	}
	if err := pub.Publish([]byte(`[{"driver":"Velu"}]`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if mc.publishedTopic != "fleet/rows" || mc.publishedQoS != 1 || !mc.publishedRetain {
		t.Fatalf("publish args: topic=%q qos=%d retain=%v", mc.publishedTopic, mc.publishedQoS, mc.publishedRetain)
	}
	if string(mc.publishedPayload) != `[{"driver":"Velu"}]` {
		t.Fatalf("payload: %s", mc.publishedPayload)
	}
}

func TestPublishDefaultsTopic(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	pub, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("NewPahoPublisher: %v", err)
	}
	if err := pub.Publish([]byte("{}")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if mc.publishedTopic != "driverboard/rows" {
		t.Fatalf("default topic = %q", mc.publishedTopic)
	}
}

func TestPublishNotConnected(t *testing.T) {
	pub := &PahoPublisher{cli: &mockClient{connected: false}, topic: "x"}
	if err := pub.Publish([]byte("{}")); err == nil {
		t.Fatal("expected error when client is not connected")
	}
}

func TestPublishTokenError(t *testing.T) {
	pub := &PahoPublisher{cli: &mockClient{connected: true, publishErr: errors.New("timeout")}, topic: "x"}
	if err := pub.Publish([]byte("{}")); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestCloseDisconnectsClient(t *testing.T) {
	mc := &mockClient{connected: true}
	pub := &PahoPublisher{cli: mc}
	pub.Close()
	if !mc.disconnected {
		t.Error("expected Disconnect() to be called")
	}
}
