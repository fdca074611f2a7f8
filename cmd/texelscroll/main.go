// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelscroll/main.go
// Summary: Command line entry point: touch-scroll pager plus gesture trace tools.
// Usage: texelscroll [view] [flags] FILE... | texelscroll replay ID | texelscroll traces

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/texelscroll/config"
	"github.com/framegrace/texelscroll/internal/frame"
	"github.com/framegrace/texelscroll/internal/trace"
	"github.com/framegrace/texelscroll/internal/viewer"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if cfgErr := config.Err(); cfgErr != nil {
		log.Printf("config: %v (using defaults)", cfgErr)
	}

	cmd := "view"
	if len(args) > 0 {
		switch args[0] {
		case "view", "replay", "traces":
			cmd, args = args[0], args[1:]
		}
	}

	switch cmd {
	case "replay":
		err = runReplay(args, settings, stdout)
	case "traces":
		err = runTraces(args, settings, stdout)
	default:
		err = runView(args, settings)
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func runView(args []string, settings config.Settings) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	logPath := fs.String("log", settings.LogFile, "Append logs to this file (default: config dir)")
	record := fs.Bool("trace", settings.TraceEnabled, "Record drag gestures to the trace database")
	verbose := fs.Bool("verbose", settings.Verbose, "Enable debug logging")
	style := fs.String("style", settings.Style, "Chroma style for syntax highlighting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("usage: texelscroll [view] [-log file] [-trace] FILE...")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal")
	}

	path := *logPath
	if path == "" {
		path = config.DefaultLogPath()
	}
	logFile, err := openLog(path)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	trace.SetVerboseLogging(*verbose)
	viewer.SetVerboseLogging(*verbose)

	opts := viewer.RenderOptions{Style: *style, TabWidth: settings.TabWidth}
	docs := make([]*viewer.Document, 0, len(files))
	for _, f := range files {
		doc, err := viewer.LoadDocument(f, opts)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}

	loop := frame.NewLoop(settings.FrameInterval)
	app := viewer.NewApp(viewer.NewTcellScreenDriver(screen), loop, docs, viewer.Options{
		SectionHeight: settings.SectionHeight,
		WheelStep:     settings.WheelStep,
		Indicators:    settings.Indicators,
		DragButton:    dragButton(settings.DragButton),
	})

	if *record {
		store, err := openStore(settings, "")
		if err != nil {
			return err
		}
		defer store.Close()
		app.View().SetRecorder(trace.NewRecorder(store, settings.TraceKeep))
		log.Printf("texelscroll: recording gestures to %s", store.Path())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("texelscroll: viewing %d file(s)", len(docs))
	if err := app.Run(ctx); err != nil {
		return err
	}
	log.Println("texelscroll: exited cleanly")
	return nil
}

func runReplay(args []string, settings config.Settings, stdout io.Writer) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	dbPath := fs.String("db", "", "Trace database (default: config dir)")
	frameMs := fs.Float64("frame", float64(settings.FrameInterval)/float64(time.Millisecond), "Frame interval in milliseconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: texelscroll replay [-db path] [-frame ms] ID")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid gesture id %q: %w", fs.Arg(0), err)
	}

	store, err := openStore(settings, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	g, err := store.Load(id)
	if err != nil {
		return err
	}
	events := trace.Replay(g, *frameMs)

	fmt.Fprintf(stdout, "# gesture %d %q: %d samples, max %.0f/%.0f, start offset %.2f/%.2f\n",
		g.ID, g.Label, len(g.Samples), g.MaxX, g.MaxY, g.OffsetX, g.OffsetY)
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tX\tY\tVX\tVY")
	for _, ev := range events {
		fmt.Fprintf(w, "%.1f\t%.3f\t%.3f\t%.5f\t%.5f\n", ev.Timestamp, ev.X, ev.Y, ev.VX, ev.VY)
	}
	return w.Flush()
}

func runTraces(args []string, settings config.Settings, stdout io.Writer) error {
	fs := flag.NewFlagSet("traces", flag.ContinueOnError)
	dbPath := fs.String("db", "", "Trace database (default: config dir)")
	limit := fs.Int("n", 20, "Number of gestures to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(settings, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(*limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECORDED\tLABEL\tSAMPLES\tDURATION")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.0fms\n",
			s.ID, s.RecordedAt.Local().Format(time.DateTime), s.Label, s.Samples, s.Duration)
	}
	return w.Flush()
}

// openStore opens the trace database at override, or the configured one.
func openStore(settings config.Settings, override string) (*trace.Store, error) {
	path := override
	if path == "" {
		p, err := settings.ResolveTraceDB()
		if err != nil {
			return nil, fmt.Errorf("resolve trace db: %w", err)
		}
		path = p
	}
	return trace.Open(path)
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, nil
}

func dragButton(n int) tcell.ButtonMask {
	switch n {
	case 2:
		return tcell.Button2
	case 3:
		return tcell.Button3
	default:
		return tcell.Button1
	}
}
