package watcher

import (
	"context"
	"time"
)

// Process is a child the supervisor restarts on change.
type Process interface {
	Exited() <-chan struct{}
	Stop(grace time.Duration)
}

// StartFunc launches a fresh child.
type StartFunc func() (Process, error)

// Supervise starts a child and restarts it after every change batch until
// ctx is cancelled. A child that exits on its own (for example a compile
// error) is not restarted until the next change.
func (w *Watcher) Supervise(ctx context.Context, start StartFunc, grace time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Holds at most one pending batch; later batches fold into the same restart.
	changes := make(chan []string, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- w.Run(ctx, func(paths []string) {
			select {
			case changes <- paths:
			default:
			}
		})
	}()

	proc, err := start()
	if err != nil {
		return err
	}

	for {
		var exited <-chan struct{}
		if proc != nil {
			exited = proc.Exited()
		}

		select {
		case <-ctx.Done():
			if proc != nil {
				proc.Stop(grace)
			}
			return nil

		case err := <-watchErr:
			if proc != nil {
				proc.Stop(grace)
			}
			return err

		case paths := <-changes:
			w.logger.Info("change detected, restarting", "files", len(paths), "first", paths[0])
			if proc != nil {
				proc.Stop(grace)
			}
			if proc, err = start(); err != nil {
				w.logger.Error("restart failed", "error", err)
				proc = nil
			}

		case <-exited:
			w.logger.Warn("process exited; waiting for changes")
			proc = nil
		}
	}
}
