package store

import "path/filepath"

// LogPathsFor returns the deterministic stdout/stderr log paths for
// id, rooted at the logs directory supplied to NewStore. It does not
// create the files; the executor creates them on demand when a job
// starts running.
func (s *Store) LogPathsFor(id string) (stdoutPath, stderrPath string) {
	return filepath.Join(s.logsDir, id+".stdout.log"),
		filepath.Join(s.logsDir, id+".stderr.log")
}
