package launch

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getlantern/systray"

	"phishsafe/bridge"
	"phishsafe/config"
	"phishsafe/manager"
	"phishsafe/probe"
	"phishsafe/query"
	"phishsafe/web"
)

// App holds everything wired from a Config.
type App struct {
	cfg     *config.Config
	db      *query.Database
	monitor *manager.ScreenMonitor
	channel *bridge.Channel
	server  *web.Server
}

// Build opens the database and wires the probe behind the bridge channel.
func Build(cfg *config.Config, system probe.SystemProbe) (*App, error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		if path, err = query.DefaultPath(); err != nil {
			return nil, err
		}
	}
	db, err := query.InitDatabase(cfg.DBDriver, path)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	km, err := manager.NewKeywordManager(db, probe.DefaultKeywords())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Build: %w", err)
	}
	sm, err := manager.NewScreenMonitor(system, cfg.Policy, cfg.SecureFlag, km, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Build: %w", err)
	}

	ch := bridge.NewChannel(cfg.Channel)
	bridge.RegisterScreenRecording(ch, sm)

	return &App{
		cfg:     cfg,
		db:      db,
		monitor: sm,
		channel: ch,
		server:  web.NewServer(db, sm, ch),
	}, nil
}

func (a *App) Channel() *bridge.Channel { return a.channel }

func (a *App) Close() error { return a.db.Close() }

// Run serves the bridge until interrupted, or until Quit is picked from the
// tray menu when the tray is enabled.
func Run(cfg *config.Config) error {
	app, err := Build(cfg, probe.NewHostProbe(cfg.WindowSecure))
	if err != nil {
		return err
	}
	defer app.Close()

	log.Printf("ScreenCheck: policy=%s secure_flag=%s channel=%s", cfg.Policy, cfg.SecureFlag, cfg.Channel)
	srv := web.StartServer(cfg.Addr, app.server)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	stop := make(chan struct{})
	if cfg.Tray {
		trayDone := make(chan struct{})
		go func() {
			select {
			case <-sigCtx.Done():
				systray.Quit()
			case <-trayDone:
			}
		}()
		// the tray status can only be set once onReady has run
		systray.Run(func() {
			app.onReady()
			app.startWatch(stop, setTrayStatus)
		}, func() {})
		close(trayDone)
	} else {
		app.startWatch(stop, nil)
		<-sigCtx.Done()
	}
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// startWatch runs the watch loop when an interval is configured and reports
// whether it started. The loop polls the probe directly so the detections log
// only holds bridge calls.
func (a *App) startWatch(stop <-chan struct{}, onChange func(bool)) bool {
	if a.cfg.WatchInterval <= 0 {
		return false
	}
	check := func() bool { return a.monitor.Probe().IsScreenRecording() }
	go manager.Watch(check, a.cfg.WatchInterval, stop, onChange)
	return true
}

func (a *App) onReady() {
	icon, err := os.ReadFile("./icon.ico")
	if err == nil {
		systray.SetIcon(icon)
	}

	systray.SetTitle("PhishSafe")
	systray.SetTooltip("Screen recording check")

	mCheck := systray.AddMenuItem("Check now", "Run the screen recording check")
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mCheck.ClickedCh:
				res := a.channel.Invoke(bridge.MethodIsScreenRecording)
				recording, _ := res.Value.(bool)
				setTrayStatus(recording)
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func setTrayStatus(recording bool) {
	if recording {
		systray.SetTitle("PhishSafe: recording detected")
		systray.SetTooltip("A screen recording app appears to be running")
		return
	}
	systray.SetTitle("PhishSafe")
	systray.SetTooltip("No screen recording detected")
}
