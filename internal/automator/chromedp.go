package automator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

const defaultLoginURL = "https://www.linkedin.com/login"

// ChromeBrowser drives a single Chrome tab through chromedp.
type ChromeBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	selectors config.Selectors
	loginURL  string
	timeout   time.Duration
	log       logging.Logger
}

type ChromeOption func(*ChromeBrowser)

// WithLoginURL overrides the LinkedIn login page.
func WithLoginURL(u string) ChromeOption {
	return func(b *ChromeBrowser) { b.loginURL = u }
}

// WithStepTimeout bounds each browser step (login, scrape, connect).
func WithStepTimeout(d time.Duration) ChromeOption {
	return func(b *ChromeBrowser) { b.timeout = d }
}

func WithBrowserLogger(log logging.Logger) ChromeOption {
	return func(b *ChromeBrowser) { b.log = log }
}

// NewChromeBrowser starts a local Chrome. CHROME_PATH selects the binary.
func NewChromeBrowser(headless bool, selectors config.Selectors, opts ...ChromeOption) (*ChromeBrowser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(1366, 900),
	)
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return newChromeBrowser(allocCtx, allocCancel, selectors, opts)
}

// NewRemoteChromeBrowser attaches to an already running Chrome through its
// DevTools websocket URL.
func NewRemoteChromeBrowser(wsURL string, selectors config.Selectors, opts ...ChromeOption) (*ChromeBrowser, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), wsURL)
	return newChromeBrowser(allocCtx, allocCancel, selectors, opts)
}

func newChromeBrowser(allocCtx context.Context, allocCancel context.CancelFunc, selectors config.Selectors, opts []ChromeOption) (*ChromeBrowser, error) {
	b := &ChromeBrowser{
		allocCancel: allocCancel,
		selectors:   selectors,
		loginURL:    defaultLoginURL,
		timeout:     45 * time.Second,
		log:         logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	ctx, cancel := chromedp.NewContext(allocCtx)
	// Force Chrome startup
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	b.ctx = ctx
	b.cancel = cancel

	b.log.Debug("browser started")
	return b, nil
}

// step runs actions on the tab, bounded by the step timeout and by ctx.
func (b *ChromeBrowser) step(ctx context.Context, actions ...chromedp.Action) error {
	stepCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(stepCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (b *ChromeBrowser) Login(ctx context.Context, username, password string) error {
	s := b.selectors
	return b.step(ctx,
		chromedp.Navigate(b.loginURL),
		chromedp.WaitVisible(s.LoginUsername, chromedp.ByQuery),
		chromedp.SendKeys(s.LoginUsername, username, chromedp.ByQuery),
		chromedp.SendKeys(s.LoginPassword, password, chromedp.ByQuery),
		chromedp.Click(s.LoginSubmit, chromedp.ByQuery),
		chromedp.WaitVisible(s.LoggedIn, chromedp.ByQuery),
	)
}

func (b *ChromeBrowser) Scrape(ctx context.Context, profileURL string) (models.Profile, error) {
	s := b.selectors
	var name, headline string
	err := b.step(ctx,
		chromedp.Navigate(profileURL),
		chromedp.WaitVisible(s.ProfileName, chromedp.ByQuery),
		chromedp.Text(s.ProfileName, &name, chromedp.ByQuery),
		// The headline is optional on some profiles.
		chromedp.Evaluate(optionalText(s.ProfileHeadline), &headline),
	)
	if err != nil {
		return models.Profile{}, err
	}

	return models.Profile{
		URL:      profileURL,
		Name:     strings.TrimSpace(name),
		Headline: strings.TrimSpace(headline),
	}, nil
}

func (b *ChromeBrowser) Connect(ctx context.Context, note string) error {
	s := b.selectors
	actions := []chromedp.Action{
		chromedp.Click(s.ConnectButton, chromedp.ByQuery, chromedp.NodeVisible),
	}
	if note != "" {
		actions = append(actions,
			chromedp.Click(s.AddNoteButton, chromedp.ByQuery, chromedp.NodeVisible),
			chromedp.WaitVisible(s.NoteInput, chromedp.ByQuery),
			chromedp.SendKeys(s.NoteInput, note, chromedp.ByQuery),
		)
	}
	actions = append(actions, chromedp.Click(s.SendButton, chromedp.ByQuery, chromedp.NodeVisible))
	return b.step(ctx, actions...)
}

// Close shuts down the browser completely.
func (b *ChromeBrowser) Close() {
	b.cancel()
	b.allocCancel()
	b.log.Debug("browser stopped")
}

// optionalText is a JS expression yielding the element's text or "".
func optionalText(selector string) string {
	return fmt.Sprintf(`(function(){var el=document.querySelector(%q);return el?el.innerText:"";})()`, selector)
}
