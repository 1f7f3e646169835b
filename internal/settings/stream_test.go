package settings

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEvents_WritesStatusThenChanges(t *testing.T) {
	var buf bytes.Buffer
	ch := make(chan []byte, 2)
	ch <- []byte(`{"settingKey":"restaurantOpen","settingValue":"false"}`)
	ch <- []byte(`{"settingKey":"deliveryCharge","settingValue":"60"}`)
	close(ch)

	err := streamEvents(bufio.NewWriter(&buf), []byte(`{"isOpen":true}`), ch, time.Hour)
	require.NoError(t, err)

	want := "event: status\ndata: {\"isOpen\":true}\n\n" +
		"event: setting\ndata: {\"settingKey\":\"restaurantOpen\",\"settingValue\":\"false\"}\n\n" +
		"event: setting\ndata: {\"settingKey\":\"deliveryCharge\",\"settingValue\":\"60\"}\n\n"
	assert.Equal(t, want, buf.String())
}

func TestStreamEvents_Heartbeat(t *testing.T) {
	var buf bytes.Buffer
	ch := make(chan []byte)
	done := make(chan error, 1)
	w := bufio.NewWriter(&buf)

	go func() { done <- streamEvents(w, []byte(`{}`), ch, 5*time.Millisecond) }()
	time.Sleep(30 * time.Millisecond)
	close(ch)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after channel close")
	}
	assert.Contains(t, buf.String(), ": ping\n\n")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("client gone") }

func TestStreamEvents_StopsOnWriteError(t *testing.T) {
	ch := make(chan []byte)
	defer close(ch)

	err := streamEvents(bufio.NewWriter(brokenWriter{}), []byte(`{}`), ch, time.Hour)
	assert.EqualError(t, err, "client gone")
}
