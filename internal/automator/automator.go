package automator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/metrics"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// Browser is a logged-in LinkedIn session. Connect acts on the profile most
// recently opened with Scrape.
type Browser interface {
	Login(ctx context.Context, username, password string) error
	Scrape(ctx context.Context, profileURL string) (models.Profile, error)
	Connect(ctx context.Context, note string) error
	Close()
}

// ActionStore persists the action log and answers the daily cap query.
type ActionStore interface {
	SaveAction(ctx context.Context, action *models.ConnectionAction) error
	CountSuccessfulActionsSince(ctx context.Context, action string, since time.Time) (int, error)
}

// Summary describes one automator run.
type Summary struct {
	Actions    []models.ConnectionAction
	Succeeded  int
	Failed     int
	Skipped    int
	SentBefore int
	CapReached bool
}

type Automator struct {
	browser  Browser
	settings *config.AutomatorSettings
	store    ActionStore
	metrics  *metrics.Metrics
	log      logging.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(*Automator)

func WithStore(store ActionStore) Option {
	return func(a *Automator) { a.store = store }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Automator) { a.metrics = m }
}

func WithLogger(log logging.Logger) Option {
	return func(a *Automator) { a.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(a *Automator) { a.now = now }
}

// WithSleep replaces the pause between targets.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(a *Automator) { a.sleep = sleep }
}

func New(browser Browser, settings *config.AutomatorSettings, opts ...Option) *Automator {
	a := &Automator{
		browser:  browser,
		settings: settings,
		log:      logging.NewNopLogger(),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run logs in and works through targets one at a time. A failing target is
// logged and skipped; a failed login or a cancelled context ends the run.
func (a *Automator) Run(ctx context.Context, targets []string) (*Summary, error) {
	summary := &Summary{}

	sent, err := a.sentToday(ctx)
	if err != nil {
		return summary, err
	}
	summary.SentBefore = sent

	limit := a.settings.MaxRequestsPerDay
	if sent >= limit {
		summary.CapReached = true
		summary.Skipped = len(targets)
		a.log.WithFields(logging.Fields{"sent": sent, "limit": limit}).Warn("⏸️ Daily connection limit already reached")
		return summary, nil
	}

	a.log.Info("🔐 Logging in to LinkedIn")
	if err := a.browser.Login(ctx, a.settings.Username, a.settings.Password); err != nil {
		return summary, fmt.Errorf("login failed: %w", err)
	}
	a.log.Info("✅ Logged in")

	for i, target := range targets {
		if sent >= limit {
			summary.CapReached = true
			summary.Skipped = len(targets) - i
			a.log.WithFields(logging.Fields{"limit": limit, "skipped": summary.Skipped}).Warn("⏸️ Daily connection limit reached")
			break
		}

		if i > 0 {
			if err := a.sleep(ctx, a.settings.Delay()); err != nil {
				summary.Skipped = len(targets) - i
				return summary, err
			}
		}

		action := a.process(ctx, target)
		a.record(ctx, action)
		summary.Actions = append(summary.Actions, *action)
		if action.Success {
			summary.Succeeded++
			sent++
		} else {
			summary.Failed++
		}
	}

	a.log.WithFields(logging.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	}).Info("🏁 Automator run finished")
	return summary, nil
}

func (a *Automator) process(ctx context.Context, target string) *models.ConnectionAction {
	action := &models.ConnectionAction{
		ProfileURL: target,
		Action:     models.ActionConnect,
	}

	profile, err := a.browser.Scrape(ctx, target)
	if err != nil {
		action.Error = fmt.Sprintf("scrape: %v", err)
		action.CreatedAt = a.now()
		return action
	}
	action.Name = profile.Name
	action.Headline = profile.Headline

	if err := a.browser.Connect(ctx, PersonalizeNote(a.settings.Message, profile)); err != nil {
		action.Error = fmt.Sprintf("connect: %v", err)
	} else {
		action.Success = true
	}
	action.CreatedAt = a.now()
	return action
}

func (a *Automator) record(ctx context.Context, action *models.ConnectionAction) {
	a.metrics.ObserveConnection(action.Success)

	entry := a.log.WithFields(logging.Fields{
		"profile":  action.ProfileURL,
		"name":     action.Name,
		"headline": action.Headline,
	})
	if action.Success {
		entry.Info("🤝 Connection request sent")
	} else {
		entry.WithField("error", action.Error).Warn("⚠️ Target failed, moving on")
	}

	if a.store == nil {
		return
	}
	if err := a.store.SaveAction(ctx, action); err != nil {
		a.log.WithError(err).Warn("⚠️ Failed to record connection action")
	}
}

// sentToday counts successful requests since local midnight.
func (a *Automator) sentToday(ctx context.Context) (int, error) {
	if a.store == nil {
		return 0, nil
	}
	now := a.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := a.store.CountSuccessfulActionsSince(ctx, models.ActionConnect, midnight)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's connection requests: %w", err)
	}
	return count, nil
}

// PersonalizeNote fills {name} with the profile's first name and trims the
// note to what LinkedIn accepts.
func PersonalizeNote(message string, profile models.Profile) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ""
	}

	name := profile.FirstName()
	if name == "" {
		name = "there"
	}
	note := strings.ReplaceAll(message, "{name}", name)

	if utf8.RuneCountInString(note) > config.MaxNoteLength {
		note = string([]rune(note)[:config.MaxNoteLength])
	}
	return note
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
