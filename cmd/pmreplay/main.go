package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/recording"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/worker"
	"github.com/oomph-ac/pmove/world"
	"github.com/sirupsen/logrus"
)

var (
	settingsPath = flag.String("settings", "pmove.toml", "path of the settings file, created with defaults if missing")
	mapPath      = flag.String("map", "", "path of the YAML map the recordings were made on")
	recordPath   = flag.String("record", "", "record a scripted run to this path instead of verifying")
	recordCount  = flag.Int("n", 600, "number of commands in a scripted run")
	stats        = flag.Bool("statsview", false, "serve runtime statistics on localhost:8080")
)

// The following program verifies that recorded command streams still replay to the recorded states, or
// records a scripted run to produce such a stream.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -map <map.yaml> [flags] <recording>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := settings.SaveDefault(*settingsPath); err == nil {
		fmt.Printf("Created default settings at %s\n", *settingsPath)
	}
	s, err := settings.Load(*settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := s.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Sentry.DSN, Environment: s.Sentry.Environment}); err != nil {
			log.WithError(err).Fatal("unable to initialize sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	if *stats || os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	if *mapPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	w, err := world.LoadMap(*mapPath)
	if err != nil {
		log.WithError(err).Fatal("unable to load map")
	}
	sim := movement.NewSimulator(w, s.Movement, s.Simulator, log)

	if *recordPath != "" {
		if err := recordScripted(sim, log, *recordPath, *recordCount); err != nil {
			log.WithError(err).Fatal("recording failed")
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if failed := verifyAll(sim, log, s.Replay.Workers, flag.Args()); failed > 0 {
		log.Errorf("%d of %d recordings failed verification", failed, flag.NArg())
		os.Exit(1)
	}
	log.Infof("verified %d recordings", flag.NArg())
}

// verifyAll replays every recording on the worker pool and returns how many failed.
func verifyAll(sim *movement.Simulator, log *logrus.Logger, workers int, paths []string) int {
	var (
		mu    sync.Mutex
		times []float64
	)
	pool := worker.New(workers)
	for _, path := range paths {
		pool.Submit(func() error {
			start := time.Now()
			rec, err := recording.Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			final, err := recording.Verify(sim, rec)
			if err != nil {
				var m *recording.Mismatch
				if errors.As(err, &m) {
					log.WithFields(logrus.Fields{
						"file":   path,
						"seq":    m.Sequence,
						"origin": game.RoundVec32(m.State.Origin, 3),
					}).Error("replay diverged")
				}
				return fmt.Errorf("%s: %w", path, err)
			}
			took := time.Since(start)
			mu.Lock()
			times = append(times, took.Seconds()*1000)
			mu.Unlock()
			log.WithFields(logrus.Fields{
				"file":    path,
				"entries": len(rec.Entries),
				"final":   game.RoundVec32(final.Origin, 3),
				"took":    took,
			}).Info("recording verified")
			return nil
		})
	}
	errs := pool.Wait()
	for _, err := range errs {
		log.Error(err)
	}
	if len(times) > 1 {
		log.WithFields(logrus.Fields{
			"mean_ms":   game.Round32(float32(game.Mean(times)), 2),
			"median_ms": game.Round32(float32(game.Median(times)), 2),
			"stddev_ms": game.Round32(float32(game.StandardDeviation(times)), 2),
		}).Info("replay timings")
	}
	return len(errs)
}

// recordScripted runs an authority through n scripted commands and records them to path.
func recordScripted(sim *movement.Simulator, log *logrus.Logger, path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	a := pmove.NewAuthority(sim, mgl32.Vec3{0, 0, 24}, 0, log)
	w, err := a.StartRecording(f, *mapPath)
	if err != nil {
		return err
	}
	for seq := uint32(1); seq <= uint32(n); seq++ {
		cmd := movement.Command{Sequence: seq, Msec: 16, Forward: 127}
		cmd.Angles[game.Yaw] = game.AngleToShort(float32(seq%360) * 0.5)
		if seq%30 == 0 {
			cmd.Buttons |= movement.ButtonJump
		}
		if seq%100 < 10 {
			cmd.Buttons |= movement.ButtonCrouch
		}
		_ = a.Process(cmd)
	}
	if err := w.Close(); err != nil {
		return err
	}
	processed, _ := a.Stats()
	log.WithFields(logrus.Fields{"file": path, "commands": processed, "entries": w.Len()}).Info("recorded scripted run")
	return nil
}
