package download

// Package download implements the per-job supervisor built on top of the
// external yt-dlp executable. It owns each process's lifecycle: building
// the invocation, launching, streaming combined output through the
// progress parser, emitting events, and reaping the process. Cancellation
// is cooperative: the supervisor checks the job registry between output
// lines and exits when its id has been removed.
