package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"

	orf "github.com/kanishk-pant/orf-english"
	"github.com/kanishk-pant/orf-english/internal/store"
	"github.com/kanishk-pant/orf-english/internal/transcribe"
)

func main() {

	fs := flag.NewFlagSet("orf-server", flag.ExitOnError)
	var (
		_           = fs.String("config", "", "config file (optional), json format.")
		serviceName = fs.String("name", "", "name for this assessment service instance")
		serviceID   = fs.String("id", "", "id for this assessment service instance, leave blank to auto-generate a unique id")
		serviceHost = fs.String("host", "localhost", "name/address of host for this service")
		servicePort = fs.Int("port", 0, "port to run service on, if not specified will assign an available port automatically")
		dbPath      = fs.String("db", "orf.db", "path of the sqlite database holding students and assessments")
		uploadDir   = fs.String("uploadDir", "uploads/audio", "directory where uploaded recordings are stored")
		sttURL      = fs.String("sttUrl", "http://localhost:9000/transcribe", "url of the speech inference (wav2vec2) transcription endpoint")
		sttToken    = fs.String("sttToken", "", "access token for the speech inference service")
	)

	ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("ORF_SRVC"),
	)

	db, err := store.Open(*dbPath)
	if err != nil {
		fmt.Printf("\nCannot open assessment database:\n%s\n\n", err)
		return
	}
	defer db.Close()

	opts := []orf.Option{
		orf.Name(*serviceName),
		orf.ID(*serviceID),
		orf.Host(*serviceHost),
		orf.Port(*servicePort),
		orf.UploadDir(*uploadDir),
		orf.Store(db),
		orf.Transcriber(transcribe.NewClient(*sttURL, *sttToken)),
	}

	srvc, err := orf.New(opts...)
	if err != nil {
		fmt.Printf("\nCannot create orf assessment service:\n%s\n\n", err)
		return
	}

	srvc.PrintConfig()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\norf-server shutting down")
		srvc.Shutdown()
		fmt.Println("orf-server closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed

}
