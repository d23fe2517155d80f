// Package artifact derives cached visual artifacts from the video files
// behind catalog assets: a representative single-frame thumbnail and a
// multi-frame contact sheet, both JPEGs cached under the library's
// .catalog directory keyed by asset id.
//
// Both operations are idempotent: an existing cache file short-circuits
// generation (the thumbnail additionally honors an overwrite flag). Frame
// extraction runs ffmpeg/ffprobe through the Prober interface so the
// sampling heuristics and the grid compositor are testable with synthetic
// in-memory frames, no real video decoding required.
//
// Contact sheet generation is partial-failure tolerant: individual frame
// extraction failures are skipped and the sheet is composed from whatever
// succeeds. Only when every frame fails is the operation abandoned, and no
// file is written.
package artifact
