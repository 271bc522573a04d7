package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comunifi/droprelay/internal/api"
	"github.com/comunifi/droprelay/internal/codesession"
	"github.com/comunifi/droprelay/internal/config"
	"github.com/comunifi/droprelay/internal/filedrop"
	"github.com/comunifi/droprelay/internal/store"
	"github.com/comunifi/droprelay/internal/webhook"
	"github.com/comunifi/droprelay/internal/ws"
)

func main() {
	log.Default().Println("starting relay...")

	////////////////////
	// flags
	port := flag.Int("port", 0, "port to listen on (default: PORT or 5000)")

	env := flag.String("env", ".env", "path to .env file")

	notify := flag.Bool("notify", false, "enable webhook notifications")

	flag.Parse()
	////////////////////

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	////////////////////
	// config
	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if *port != 0 {
		conf.Port = *port
	}
	////////////////////

	////////////////////
	// webhook
	log.Default().Println("starting webhook service...")

	w := webhook.NewMessager(conf.DiscordURL, conf.ServerName, *notify)
	defer func() {
		if r := recover(); r != nil {
			// in case of a panic, notify the webhook messager with an error notification
			err := fmt.Errorf("recovered from panic: %v", r)
			log.Default().Println(err)
			w.NotifyError(ctx, err)
		}
	}()
	////////////////////

	////////////////////
	// store
	var st store.Store
	var broker ws.Broker

	if conf.RedisURL != "" {
		log.Default().Println("running in shared mode, connecting to redis...")

		rdb, err := store.NewRedisClient(ctx, conf.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()

		st = store.NewRedisStore(rdb, conf.RedisPrefix+"room:", conf.RoomTTL)

		rb, err := ws.NewRedisBroker(ctx, rdb, conf.RedisPrefix+"group:")
		if err != nil {
			log.Fatal(err)
		}
		defer rb.Close()

		broker = rb
	} else {
		log.Default().Println("running in single process mode...")

		ms := store.NewMemoryStore(conf.RoomTTL)
		ms.StartSweeper(conf.SweepInterval)

		st = ms
	}
	defer st.Close()
	////////////////////

	////////////////////
	// main error channel
	quitAck := make(chan error)
	////////////////////

	////////////////////
	// connections
	manager := ws.NewManager(conf.AllowedOrigin, conf.MaxMessageSize, broker)
	////////////////////

	////////////////////
	// api
	files := filedrop.NewRegistry(st)
	code := codesession.NewRegistry(st)

	s := api.NewServer(conf.AllowedOrigin, files, code, manager)
	s.AddEventHandlers()

	wsr := s.CreateBaseRouter()
	wsr = s.AddMiddleware(wsr)
	wsr = s.AddRoutes(wsr)

	go func() {
		quitAck <- manager.Run(ctx)
	}()

	go func() {
		quitAck <- s.Start(conf.Port, wsr)
	}()

	log.Default().Println("listening on port: ", conf.Port)
	////////////////////

	w.Notify(ctx, "engine started")

	select {
	case err := <-quitAck:
		if err != nil && !errors.Is(err, context.Canceled) {
			w.NotifyError(ctx, err)
			log.Default().Println(err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = s.Stop(shutdownCtx)
	if err != nil {
		log.Default().Println(err)
	}

	log.Default().Println("engine stopped")
}
