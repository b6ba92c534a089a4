// Command abrctl inspects bitrate ladders and runs quality decision cycles
// against them.
//
// A ladder source is either a directory of fragmented MP4 init+media files,
// one per rendition, or a WARP JSON catalog. Decisions are driven by static
// switch requests given on the command line, constrained by the per-category
// policy in the configuration file and by runtime boundary flags. Boundary
// changes and quality switches can be recorded to SQLite and exposed as
// Prometheus metrics.
package main
