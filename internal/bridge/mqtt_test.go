package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// doneToken is an already-completed mqtt.Token
type doneToken struct{ err error }

func (t doneToken) Wait() bool { return true }

func (t doneToken) WaitTimeout(time.Duration) bool { return true }

func (t doneToken) Error() error { return t.err }

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type publishedMessage struct {
	topic   string
	payload string
}

// fakeMQTT implements the parts of mqtt.Client the source uses
type fakeMQTT struct {
	mqtt.Client

	mu           sync.Mutex
	published    []publishedMessage
	subscribed   string
	unsubscribed bool
	subErr       error
}

func (f *fakeMQTT) Subscribe(topic string, _ byte, _ mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = topic
	return doneToken{err: f.subErr}
}

func (f *fakeMQTT) Unsubscribe(...string) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = true
	return doneToken{}
}

func (f *fakeMQTT) Disconnect(uint) {}

func (f *fakeMQTT) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMessage{topic: topic, payload: string(payload.([]byte))})
	return doneToken{}
}

func TestMQTTSource_HandleSplitsReadings(t *testing.T) {
	src := newMQTTSource(&fakeMQTT{}, "home/door", zap.NewNop())
	sink := &recordingSink{}

	src.handle(context.Background(), sink, []byte("open:true:3\nbogus\n"))
	src.handle(context.Background(), sink, []byte(`{"door_status":"closed","alert":false}`))

	assert.Equal(t, Stats{Lines: 3, Skipped: 1, Forwarded: 2}, src.Stats())
	require.Len(t, sink.sigs, 2)
	assert.Equal(t, "open", sink.sigs[0].DoorStatus)
	assert.Equal(t, "closed", sink.sigs[1].DoorStatus)
}

func TestMQTTSource_WritePublishesCommand(t *testing.T) {
	client := &fakeMQTT{}
	src := newMQTTSource(client, "home/door/", zap.NewNop())

	n, err := src.Write([]byte("buzz_on\n"))

	require.NoError(t, err)
	assert.Equal(t, 8, n)
	require.Len(t, client.published, 1)
	assert.Equal(t, publishedMessage{topic: "home/door/command", payload: "buzz_on"}, client.published[0])
}

func TestMQTTSource_RunUntilCancelled(t *testing.T) {
	client := &fakeMQTT{}
	src := newMQTTSource(client, "home/door", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := src.Run(ctx, &recordingSink{})
		done <- err
	}()
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, "home/door", client.subscribed)
	assert.True(t, client.unsubscribed)
}

func TestMQTTSource_SubscribeFailure(t *testing.T) {
	client := &fakeMQTT{subErr: errors.New("not authorized")}
	src := newMQTTSource(client, "home/door", zap.NewNop())

	_, err := src.Run(context.Background(), &recordingSink{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
}
