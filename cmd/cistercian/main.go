package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cistercian-mcp/internal/cistercian"
	"github.com/ironsheep/cistercian-mcp/internal/config"
	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/httpapi"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
	"github.com/ironsheep/cistercian-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("cistercian - Cistercian numeral encoder and decoder")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cistercian [mcp]                MCP server over stdin/stdout (default)")
	fmt.Println("  cistercian serve                HTTP API")
	fmt.Println("  cistercian encode N [out.png]   Draw N (0-9999); prints a data URI without out.png")
	fmt.Println("  cistercian decode FILE          Read the number drawn in FILE")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CISTERCIAN_CONFIG=path.yaml     Configuration file")
	fmt.Println("  CISTERCIAN_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  CISTERCIAN_HTTP_ADDR=:8080      HTTP listen address")
	fmt.Println("  CISTERCIAN_RENDER_WIDTH=300     Any config key, upper-cased with _ for .")
}

func main() {
	cmd := "mcp"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("cistercian %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cistercian: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout carries MCP traffic and command output.
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("Cistercian numerals")

	table := glyph.NewTemplateTable()
	enc, err := cistercian.NewEncoder(table, cfg.Render)
	if err != nil {
		log.WithError(err).Fatal("invalid render configuration")
	}
	dec := cistercian.NewDecoder(table, cfg.DecoderOptions())

	switch cmd {
	case "mcp":
		srv := server.New(enc, dec, log, Version)
		if err := srv.Run(); err != nil {
			log.WithError(err).Fatal("server error")
		}
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		api := httpapi.New(enc, dec, log, cfg.HTTP.MaxUploadBytes)
		if err := httpapi.ListenAndServe(ctx, cfg.HTTP.Addr, api.Routes(), log); err != nil {
			log.WithError(err).Fatal("server error")
		}
	case "encode":
		if err := runEncode(enc, os.Args[2:], os.Stdout); err != nil {
			fail(log, err)
		}
	case "decode":
		if err := runDecode(dec, os.Args[2:], os.Stdout); err != nil {
			fail(log, err)
		}
	default:
		fmt.Fprintf(os.Stderr, "cistercian: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

func runEncode(enc *cistercian.Encoder, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: cistercian encode N [out.png]: %w", cistercian.ErrInvalidRequest)
	}
	n, err := cistercian.ParseNumber([]byte(args[0]))
	if err != nil {
		return err
	}
	img, err := enc.Encode(n)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		uri, err := imaging.EncodeDataURI(img)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, uri)
		return err
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], data, 0o644)
}

func runDecode(dec *cistercian.Decoder, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cistercian decode FILE: %w", cistercian.ErrInvalidRequest)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", cistercian.ErrInvalidRequest, err)
	}
	img, _, err := imaging.DecodeBytes(data)
	if err != nil {
		return err
	}
	n, err := dec.Decode(img)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, n)
	return err
}

// fail reports a command error and exits 1 for bad input and 3 when the
// picture could not be read.
func fail(log logrus.FieldLogger, err error) {
	kind := cistercian.KindOf(err)
	log.WithField("kind", kind).Error(err)
	if kind.IsRecognitionError() {
		os.Exit(3)
	}
	os.Exit(1)
}
