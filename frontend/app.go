package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/kpaschen/weightedcor/lib"
	"github.com/kpaschen/weightedcor/lib/settings"
	"github.com/kpaschen/weightedcor/receiver"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type config struct {
	listenAddress  string
	metricsAddress string
}

func main() {
	var metricsAddr string
	var listenAddr string
	var algorithm string
	var workers int
	var resultBufferSize int
	var logDegenerateCells bool

	flag.StringVar(&metricsAddr, "metrics-address", ":9203", "The address the metrics endpoint binds to.")
	flag.StringVar(&listenAddr, "listen-address", ":9201", "The address that the correlation endpoint binds to.")

	flag.StringVar(&algorithm, "algorithm", settings.ALGO_TWO_PASS, "Algorithm to use. Possible values: two_pass, welford")
	flag.IntVar(&workers, "workers", 0, "Number of goroutines computing cells. 0 means one per cpu.")
	flag.IntVar(&resultBufferSize, "resultBufferSize", 0, "Size of the cell result channel. 0 means twice the number of workers.")
	flag.BoolVar(&logDegenerateCells, "logDegenerateCells", false, "Whether to log every cell whose correlation is NaN or Inf")

	flag.Parse()

	cfg := &config{
		listenAddress:  listenAddr,
		metricsAddress: metricsAddr,
	}

	correlationConfig := settings.CorrelationSettings{
		Algorithm:          algorithm,
		Workers:            workers,
		ResultBufferSize:   resultBufferSize,
		LogDegenerateCells: logDegenerateCells,
	}
	correlator, err := lib.NewCorrelator(correlationConfig)
	if err != nil {
		log.Fatalf("invalid settings: %v", err)
	}
	log.Printf("correlation settings: %+v\n", correlator.Settings())

	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(cfg.metricsAddress, nil)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	recv := receiver.NewCorrelationReceiver(correlator)
	server := &http.Server{
		Addr:    cfg.listenAddress,
		Handler: recv.Router(),
	}
	go func() {
		log.Printf("correlation service listening on port %s\n", cfg.listenAddress)
		if err := server.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				log.Fatal(err)
			}
		}
	}()

	<-stop
	log.Println("correlation service shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Requests still in flight get cancelled through their contexts.
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
