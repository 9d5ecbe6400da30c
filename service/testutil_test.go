package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"kgc/registry-api/db"
	"kgc/registry-api/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(conn))

	return conn
}

// newTestQueue returns a running queue small enough that tests never
// block on it.
func newTestQueue(t *testing.T) *NotifyQueue {
	t.Helper()

	viper.Set("notify.workers", 1)
	viper.Set("notify.queue_size", 64)

	q := NewNotifyQueue()
	q.StartWorkerPool()

	return q
}

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingDispatcher captures every code handed to the transport.
type recordingDispatcher struct {
	mu    sync.Mutex
	codes []string
}

func (d *recordingDispatcher) SendOTP(channel, identifier, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes = append(d.codes, code)
	return nil
}

// stubRenderer returns a constant payload instead of a real PDF.
type stubRenderer struct{}

func (stubRenderer) Render(p *model.Profile, registrationID string, submittedAt time.Time) ([]byte, error) {
	return []byte("certificate:" + registrationID), nil
}

// stubStore records uploads and fabricates URLs.
type stubStore struct {
	mu   sync.Mutex
	keys []string
}

func (s *stubStore) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

// stubNotifier records verdict emails.
type stubNotifier struct {
	mu         sync.Mutex
	approvals  []string
	rejections []string
}

func (n *stubNotifier) SendApproval(email, name, membershipID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvals = append(n.approvals, email)
	return nil
}

func (n *stubNotifier) SendRejection(email, name, registrationID, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejections = append(n.rejections, email)
	return nil
}

func testProfile(name string) model.Profile {
	return model.Profile{
		FullName:        name,
		Surname:         "Rao",
		DesiredName:     name,
		FatherOrHusband: "K. Rao",
		MotherName:      "L. Rao",
		MaritalStatus:   "single",
		Gothram:         "Bharadwaja",
		Education:       "B.Tech",
		Occupation:      "Engineer",
		CurrentDistrict: "Guntur",
		CurrentState:    "Andhra Pradesh",
		CurrentPinCode:  "522001",
		NativeDistrict:  "Guntur",
		NativeState:     "Andhra Pradesh",
		NativePinCode:   "522001",
		ReferredByName:  "M. Rao",
		ReferredMobile:  "9876500000",
	}
}
