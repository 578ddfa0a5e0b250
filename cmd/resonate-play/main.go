// ABOUTME: Entry point for the Resonate file player
// ABOUTME: Parses CLI flags, sets up logging and runs playback with an optional TUI
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/resonate-play/internal/ui"
	"github.com/Resonate-Protocol/resonate-play/internal/version"
	"github.com/Resonate-Protocol/resonate-play/pkg/player"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

const statsInterval = 250 * time.Millisecond

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println(version.String())
		return
	}
	os.Exit(run(opts))
}

func run(opts options) int {
	useTUI := !opts.noTUI

	f, err := os.OpenFile(opts.logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		logrus.SetOutput(f)
	} else {
		logrus.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	logrus.SetLevel(opts.logLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	log := logrus.WithField("app", version.Product)
	log.WithFields(logrus.Fields{
		"version": version.Version,
		"file":    opts.config.Path,
		"backend": opts.config.Backend,
		"mode":    opts.config.Mode.String(),
	}).Info("Starting")

	cfg := opts.config
	cfg.Logger = log

	p, err := player.Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = p.Close() }()

	var (
		tuiProg *tea.Program
		ctrl    *ui.Controls
	)
	tuiDone := make(chan struct{})
	if useTUI {
		ctrl = ui.NewControls()
		tuiProg = ui.Run(ctrl)
		go func() {
			defer close(tuiDone)
			if _, err := tuiProg.Run(); err != nil {
				log.WithField("error", err).Error("TUI exited with error")
			}
		}()
		go statsUpdateLoop(p, tuiProg)
	} else {
		close(tuiDone)
	}

	if err := p.Play(); err != nil {
		if tuiProg != nil {
			tuiProg.Send(ui.DoneMsg{Err: err})
			<-tuiDone
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var quit <-chan struct{}
	if ctrl != nil {
		quit = ctrl.Quit
	}

	select {
	case <-p.Done():
	case <-quit:
		log.Info("Received quit signal from TUI")
	case <-sigChan:
		log.Info("Shutdown signal received")
	}

	_ = p.Close()
	err = p.Wait(context.Background())
	stats := p.Stats()

	if tuiProg != nil {
		tuiProg.Send(ui.StatusMsg{Stats: stats})
		tuiProg.Send(ui.DoneMsg{Err: err})
		<-tuiDone
	}

	log.WithFields(logrus.Fields{
		"state":     stats.State.String(),
		"played":    stats.Position.String(),
		"skipped":   stats.SkippedFrames,
		"underruns": stats.Underruns,
	}).Info("Player stopped")

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, player.ErrPlatformFault) {
			return 3
		}
		return 1
	}
	return 0
}

// statsUpdateLoop periodically updates TUI with playback statistics
func statsUpdateLoop(p *player.Player, prog *tea.Program) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.Done():
			return
		case <-ticker.C:
			prog.Send(ui.StatusMsg{Stats: p.Stats()})
		}
	}
}
