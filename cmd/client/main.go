package main

import (
	"context"
	"os"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-zk-vault/internal/client"
	"github.com/MKhiriev/go-zk-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// wipe every enclave and locked buffer on Ctrl-C
	memguard.CatchInterrupt()

	app := client.NewApp(client.WithBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)))
	err := app.Execute(context.Background(), os.Args[1:])

	memguard.Purge()
	if err != nil {
		os.Exit(1)
	}
}
