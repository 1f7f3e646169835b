package settings

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sahone-backend/internal/events"
	"sahone-backend/internal/models"

	"github.com/sirupsen/logrus"
)

const heartbeatInterval = 25 * time.Second

// Change is the payload published for every setting write.
type Change struct {
	SettingKey   string `json:"settingKey"`
	SettingValue string `json:"settingValue"`
	Deleted      bool   `json:"deleted,omitempty"`
}

func publish(ctx context.Context, b events.Broker, s *models.RestaurantSetting, deleted bool) {
	if b == nil || s == nil {
		return
	}
	payload, err := json.Marshal(Change{SettingKey: s.SettingKey, SettingValue: s.SettingValue, Deleted: deleted})
	if err != nil {
		return
	}
	if err := b.Publish(ctx, events.TopicSettings, payload); err != nil {
		logrus.WithField("setting_key", s.SettingKey).WithError(err).Warn("setting change publish failed")
	}
}

func writeEvent(w *bufio.Writer, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

// streamEvents writes the initial status, then every change from ch and a
// heartbeat comment on each tick. It returns when ch is closed or a write
// fails, which is how a disconnected client shows up.
func streamEvents(w *bufio.Writer, initial []byte, ch <-chan []byte, heartbeat time.Duration) error {
	if err := writeEvent(w, "status", initial); err != nil {
		return err
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeEvent(w, "setting", msg); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}
