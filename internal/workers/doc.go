// Package workers provides utilities for determining worker pool sizes in
// containerized environments.
//
// runtime.NumCPU() reports the host machine's CPU count even when a cgroup
// limit caps the container to a fraction of it. Go 1.19+ sets GOMAXPROCS
// from the container limit, so the helpers here size pools from
// runtime.GOMAXPROCS(0) instead, scaled by a workload multiplier:
//
//	// Frame extraction + JPEG encode is a mix of ffmpeg I/O and CPU work.
//	n := workers.ForMixed(8)
//
// The artifact pipeline is the main consumer: each asset's thumbnail and
// contact sheet are generated by an independent worker, bounded by these
// counts. Operators can pin the pool size with the ARTIFACT_WORKERS
// environment variable, which overrides the calculation in every helper.
package workers
