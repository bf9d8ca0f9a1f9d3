package internal

import (
	"log/slog"
	"os/exec"
	"sync"
)

// ProcessGroup reaps a fixed set of long-lived external processes
// concurrently: one goroutine parked in Cmd.Wait() per process. It is
// the same goroutine-per-unit, sync.WaitGroup-backed shape used
// elsewhere in this codebase for in-process dispatch pools,
// retargeted at OS-process lifetimes instead of a stream of
// dispatched work items. There is no queue here because the set of
// processes is fixed for the life of the group.
type ProcessGroup struct {
	wg sync.WaitGroup
}

// Watch starts one goroutine per command that blocks on cmd.Wait()
// and logs the outcome. It does not start the commands themselves;
// callers must already have called cmd.Start().
func (pg *ProcessGroup) Watch(cmds []*exec.Cmd, log *slog.Logger) {
	for _, cmd := range cmds {
		pg.wg.Add(1)
		c := cmd
		go func() {
			defer pg.wg.Done()
			err := c.Wait()
			if err != nil {
				log.Warn("worker process exited", "pid", c.Process.Pid, "err", err)
				return
			}
			log.Info("worker process exited", "pid", c.Process.Pid)
		}()
	}
}

// Wait returns a channel closed once every watched process has been
// reaped.
func (pg *ProcessGroup) Wait() DoneChan {
	return wrapWaitGroup(&pg.wg)
}
