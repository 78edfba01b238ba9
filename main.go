package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/dico/framework/app"
	"github.com/km-arc/dico/framework/container"
)

// clock reports the time the service was first built.
type clock struct {
	Started time.Time `json:"started"`
	Zone    string    `json:"zone"`
}

// mailer depends on a transport resolved through its own scope.
type mailer struct {
	From      string `json:"from"`
	Transport any    `json:"transport"`
}

type smtpTransport struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func main() {
	application := app.New() // loads .env automatically

	// ── Loadable modules, referenced by "module" in DICO_CONFIG ──────────────

	application.
		Module("./services/clock", container.Sync(func(s *container.Scope) (any, error) {
			zone, _ := container.ParamAs[string](s, "zone")
			loc, err := time.LoadLocation(zone)
			if err != nil {
				return nil, fmt.Errorf("clock: %w", err)
			}
			return &clock{Started: time.Now().In(loc), Zone: loc.String()}, nil
		})).
		Module("./services/smtp", container.Sync(func(s *container.Scope) (any, error) {
			host, _ := container.ParamAs[string](s, "host")
			port, _ := container.ParamAs[int](s, "port")
			return &smtpTransport{Host: host, Port: port}, nil
		})).
		Module("./services/mailer", container.Factory(func(s *container.Scope, done container.Callback) {
			s.Service("transport", func(t any, err error) {
				if err != nil {
					done(nil, err)
					return
				}
				from, _ := container.ParamAs[string](s, "from")
				done(&mailer{From: from, Transport: t}, nil)
			})
		}))

	// ── Programmatic registrations ───────────────────────────────────────────

	application.Set("zone", "UTC")
	application.When("mailer").Needs("from").Give("noreply@example.com")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := application.Logger()
	defer func() { _ = log.Sync() }()

	if err := application.Run(ctx); err != nil {
		log.Fatal("application stopped", zap.Error(err))
	}
}
