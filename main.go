package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-replay/api"
	"github.com/a-bouts/route-replay/api/model"
	"github.com/a-bouts/route-replay/display"
	"github.com/a-bouts/route-replay/playback"
	"github.com/a-bouts/route-replay/route"
	"github.com/a-bouts/route-replay/xmpp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file")
	}

	fs := flag.NewFlagSet("route-replay", flag.ExitOnError)
	var (
		addr         = fs.String("addr", ":8888", "listen address")
		routeSrc     = fs.String("route", "data/dummy-route.json", "route file or http(s) URL, .json or .gpx")
		loadTimeout  = fs.Duration("load-timeout", 10*time.Second, "timeout when fetching the route from a URL")
		tickInterval = fs.Duration("tick-interval", playback.DefaultInterval, "time between two points")
		autoplay     = fs.Bool("autoplay", false, "start playing once the route is loaded")
		logView      = fs.Bool("log-view", false, "also render the replay to the log")
		origins      = fs.String("allowed-origins", "*", "comma separated CORS origins")
		debug        = fs.Bool("debug", false, "debug logs")
		cpuprofile   = fs.Bool("cpuprofile", false, "write a cpu profile in the working directory")
		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
		_            = fs.String("config", "", "config file")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarNoPrefix(),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		log.WithError(err).Fatal("Error parsing configuration")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if *cpuprofile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, a := load(ctx, *routeSrc, *loadTimeout, *tickInterval)

	hub := api.NewHub(func(cmd model.Command) {
		if c == nil {
			return
		}
		if err := api.Command(c, cmd.Type); err != nil {
			log.WithError(err).Warn("Websocket command ignored")
		}
	})
	go hub.Run()
	defer hub.Stop()

	if c != nil {
		defer c.Close()

		a.AddView(hub)
		if *logView {
			a.AddView(display.LogView{})
		}
		a.Init()
		c.Subscribe(a.Update)

		x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
		if x.Enabled() {
			c.Subscribe(xmpp.NewFinishNotifier(x).Observe)
		}

		if *autoplay {
			c.Play()
		}
	}

	router := api.InitServer(c, a, hub)

	h := handlers.CORS(
		handlers.AllowedOrigins(strings.Split(*origins, ",")),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	h = handlers.LoggingHandler(log.StandardLogger().Writer(), h)

	srv := &http.Server{Addr: *addr, Handler: h}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("Start server on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Server failed")
	}
}

// load reads the route once. On failure the service keeps running without a
// route: health reports Loading and controls answer 503.
func load(ctx context.Context, src string, timeout, interval time.Duration) (*playback.Controller, *display.Adapter) {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	r, err := route.Load(loadCtx, src)
	if err != nil {
		log.WithError(err).Errorf("Error loading route '%s'", src)
		return nil, nil
	}

	c, err := playback.New(r, playback.WithInterval(interval))
	if err != nil {
		log.WithError(err).Errorf("Route '%s' cannot be replayed", src)
		return nil, nil
	}

	log.WithFields(log.Fields{
		"points":   len(r),
		"length":   int(r.Length()),
		"duration": display.FormatTime(r.Duration()),
	}).Infof("Route '%s' loaded in %s", src, time.Since(start))

	return c, display.NewAdapter(r)
}
