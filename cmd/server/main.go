package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/handler/http"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
	"github.com/MKhiriev/go-zk-vault/internal/server"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Println(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	issueToken := flag.Int64("issue-token", 0, "print a bearer token for this user id and exit")

	log := logger.NewLogger("zkvault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if *issueToken != 0 {
		token, err := utils.GenerateJWTToken(cfg.App.TokenIssuer, *issueToken, cfg.App.TokenDuration, cfg.App.TokenSignKey)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.String())
		return
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	services := service.NewServices(storages, metrics.New(reg), log)
	handler := http.NewHandler(services, cfg.App, reg, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
	}
}
