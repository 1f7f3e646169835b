package reports

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// nextRun is the first time at hh:mm local that is strictly after now.
func nextRun(now time.Time, at string) (time.Time, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	next := time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// RunDaily generates the previous day's daily report every day at `at`
// (HH:MM, local) until ctx is cancelled.
func RunDaily(ctx context.Context, db *gorm.DB, at string) {
	log := logrus.WithField("component", "report-scheduler")
	for {
		next, err := nextRun(time.Now(), at)
		if err != nil {
			log.WithError(err).Error("invalid schedule, scheduler stopped")
			return
		}
		log.WithField("next_run", next.Format(time.RFC3339)).Debug("daily report scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("report scheduler stopped")
			return
		case fired := <-timer.C:
			date := fired.AddDate(0, 0, -1).Format(dateLayout)
			r, err := GenerateDaily(db, date)
			if err != nil {
				log.WithField("date", date).WithError(err).Error("daily report failed")
				continue
			}
			log.WithFields(logrus.Fields{
				"date":         date,
				"total_orders": r.TotalOrders,
				"revenue":      r.TotalRevenue,
			}).Info("daily report generated")
		}
	}
}
