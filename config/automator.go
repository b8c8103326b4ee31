package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxNoteLength is the longest connection note LinkedIn accepts.
const MaxNoteLength = 300

// AutomatorSettings configures the connection/scrape automator.
type AutomatorSettings struct {
	Username          string    `yaml:"username"`
	Password          string    `yaml:"password"`
	Message           string    `yaml:"message"`
	MaxRequestsPerDay int       `yaml:"max_requests_per_day"`
	DelaySeconds      int       `yaml:"delay_seconds"`
	Headless          *bool     `yaml:"headless"`
	Selectors         Selectors `yaml:"selectors"`
}

// Selectors are the CSS selectors the browser session relies on. LinkedIn
// changes its markup often, so they can be overridden from the settings file.
type Selectors struct {
	LoginUsername   string `yaml:"login_username"`
	LoginPassword   string `yaml:"login_password"`
	LoginSubmit     string `yaml:"login_submit"`
	LoggedIn        string `yaml:"logged_in"`
	ProfileName     string `yaml:"profile_name"`
	ProfileHeadline string `yaml:"profile_headline"`
	ConnectButton   string `yaml:"connect_button"`
	AddNoteButton   string `yaml:"add_note_button"`
	NoteInput       string `yaml:"note_input"`
	SendButton      string `yaml:"send_button"`
}

// DefaultSelectors match LinkedIn's markup at the time of writing.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginUsername:   "#username",
		LoginPassword:   "#password",
		LoginSubmit:     "button[type=submit]",
		LoggedIn:        "#global-nav",
		ProfileName:     "h1",
		ProfileHeadline: "div.text-body-medium",
		ConnectButton:   "main button[aria-label*='connect' i]",
		AddNoteButton:   "button[aria-label='Add a note']",
		NoteInput:       "textarea[name='message']",
		SendButton:      "button[aria-label='Send invitation'], button[aria-label='Send now']",
	}
}

// Delay is the pause between two targets.
func (s *AutomatorSettings) Delay() time.Duration {
	return time.Duration(s.DelaySeconds) * time.Second
}

// IsHeadless defaults to true when the settings file does not say otherwise.
func (s *AutomatorSettings) IsHeadless() bool {
	return s.Headless == nil || *s.Headless
}

// Validate checks the login credentials are present and the limits are sane.
func (s *AutomatorSettings) Validate() error {
	var missing []string
	if s.Username == "" {
		missing = append(missing, "username")
	}
	if s.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("automator settings missing %s", strings.Join(missing, ", "))
	}
	if s.MaxRequestsPerDay < 0 {
		return fmt.Errorf("max_requests_per_day must not be negative, got %d", s.MaxRequestsPerDay)
	}
	if s.DelaySeconds < 0 {
		return fmt.Errorf("delay_seconds must not be negative, got %d", s.DelaySeconds)
	}
	return nil
}

// LoadAutomatorSettings reads the automator settings file, filling defaults for
// anything left out.
func LoadAutomatorSettings(path string) (*AutomatorSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read automator settings: %w", err)
	}

	settings := &AutomatorSettings{
		MaxRequestsPerDay: 20,
		DelaySeconds:      30,
		Selectors:         DefaultSelectors(),
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse automator settings: %w", err)
	}
	settings.Selectors = mergeSelectors(settings.Selectors, DefaultSelectors())

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// mergeSelectors fills empty selectors, which a partial selectors block in
// YAML leaves behind, from the defaults.
func mergeSelectors(s, def Selectors) Selectors {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&s.LoginUsername, def.LoginUsername)
	fill(&s.LoginPassword, def.LoginPassword)
	fill(&s.LoginSubmit, def.LoginSubmit)
	fill(&s.LoggedIn, def.LoggedIn)
	fill(&s.ProfileName, def.ProfileName)
	fill(&s.ProfileHeadline, def.ProfileHeadline)
	fill(&s.ConnectButton, def.ConnectButton)
	fill(&s.AddNoteButton, def.AddNoteButton)
	fill(&s.NoteInput, def.NoteInput)
	fill(&s.SendButton, def.SendButton)
	return s
}

// LoadTargets reads one profile URL per line. Blank lines and lines starting
// with # are skipped and duplicates are dropped, keeping file order.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	var targets []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}
	return targets, nil
}
