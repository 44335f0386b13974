package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/otctl/internal/adapters/journal/sqlite"
	sessionrender "github.com/bnema/otctl/internal/adapters/render/session"
	tomlrepo "github.com/bnema/otctl/internal/adapters/repo/toml"
	"github.com/bnema/otctl/internal/adapters/robot"
	"github.com/bnema/otctl/internal/application"
	"github.com/bnema/otctl/internal/config"
	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
)

var errRobotNotConfigured = errors.New("robot address is not configured: set robot.host, OTCTL_ROBOT_HOST or --robot")

type app struct {
	configPath string
	robotHost  string

	cfg           config.Config
	sessions      *tomlrepo.Repository
	journal       ports.CommandJournal
	closeJournal  func() error
	service       *application.Service
	renderSession func(domain.SessionState, sessionrender.RenderOptions) (string, error)
	renderReport  func(application.RunReport) (string, error)
	now           func() time.Time
}

func (a *app) wire() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sessions, err := tomlrepo.NewRepository(cfg.Viper())
	if err != nil {
		return fmt.Errorf("wire session repository: %w", err)
	}

	a.journal = ports.NopJournal{}
	if cfg.Journal.Path != "" {
		journal, err := sqlite.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("wire command journal: %w", err)
		}
		a.journal = journal
		a.closeJournal = journal.Close
	}

	a.cfg = cfg
	a.sessions = sessions
	a.renderSession = sessionrender.Render
	a.renderReport = sessionrender.RenderReport
	a.now = time.Now
	a.service = a.newService(a.host(""))

	return nil
}

func (a *app) close() error {
	if a.closeJournal == nil {
		return nil
	}
	err := a.closeJournal()
	a.closeJournal = nil
	return err
}

// host picks the robot address: --robot, then the protocol's own, then config.
func (a *app) host(protocolHost string) string {
	for _, candidate := range []string{a.robotHost, protocolHost, a.cfg.Robot.Host} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func (a *app) newService(host string) *application.Service {
	return application.NewService(
		a.connector(host),
		a.sessions,
		a.journal,
		ports.SystemClock{},
		application.WithMaxTransferVolume(a.cfg.Transfer.MaxVolumeUL),
	)
}

func (a *app) connector(host string) ports.RobotConnector {
	baseURL := ""
	if host != "" {
		baseURL = robot.BaseURLWithPort(host, a.cfg.Robot.Port)
	}

	return robot.Connector{Config: robot.Config{
		BaseURL:        baseURL,
		Headers:        robot.DefaultHeaders(a.cfg.Robot.APIVersion),
		RequestTimeout: a.cfg.Robot.RequestTimeout,
		Journal:        a.journal,
		Clock:          ports.SystemClock{},
	}}
}

// requireHost fails early with a config hint instead of a URL parse error.
func (a *app) requireHost(protocolHost string) error {
	if a.host(protocolHost) == "" {
		return errRobotNotConfigured
	}
	return nil
}
