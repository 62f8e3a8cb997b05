// Command uploader narrates a local PDF through an Audionary server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/audionary/audionary-backend/internal/widget"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", getEnv("AUDIONARY_SERVER_URL", "http://localhost:8080/"), "Audionary server URL")
	copyTo := flag.String("copy-to", "", "write the narration text to this file")
	outDir := flag.String("out", "", "download the audio into this directory")
	timeout := flag.Duration("timeout", 10*time.Minute, "request timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file.pdf>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, flag.Arg(0), options{
		server:  *server,
		copyTo:  *copyTo,
		outDir:  *outDir,
		timeout: *timeout,
	}))
}

type options struct {
	server  string
	copyTo  string
	outDir  string
	timeout time.Duration
}

func run(ctx context.Context, path string, opts options) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := &http.Client{Timeout: opts.timeout}

	term := &terminal{out: os.Stdout}
	errs := &terminal{out: os.Stderr}
	ev := &events{}
	clipboard := &fileClipboard{path: opts.copyTo}
	downloader := &httpDownloader{client: client, dir: opts.outDir}

	_, err := widget.New(widget.Elements{
		Input:          term,
		DropZone:       dropZone{},
		Loading:        loadingLine{t: errs},
		Result:         resultPanel{t: term},
		Narration:      term,
		Audio:          term,
		CopyButton:     label{t: errs, name: "copy"},
		DownloadButton: label{t: errs, name: "download"},
		Toasts:         toastLine{t: errs},
		Clipboard:      clipboard,
		Downloader:     downloader,
	}, ev,
		widget.WithBaseURL(baseURL(opts.server)),
		widget.WithHTTPClient(client),
		widget.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create widget", "error", err)
		return 1
	}

	file, err := widget.NewLocalFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Same path as picking a file in the browser
	term.SetFiles([]widget.File{file})
	ev.change(term.Files())

	ev.submit(ctx)
	if term.Source() == "" {
		return 1
	}

	status := 0
	if opts.copyTo != "" {
		ev.copy(ctx)
		if clipboard.lastErr != nil {
			status = 1
		}
	}
	if opts.outDir != "" {
		ev.download(ctx)
		if downloader.lastErr != nil {
			status = 1
		}
	}
	return status
}

// baseURL makes sure relative endpoints resolve below the server path
func baseURL(server string) string {
	if !strings.HasSuffix(server, "/") {
		return server + "/"
	}
	return server
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
