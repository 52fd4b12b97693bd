// Package quickstart scaffolds Farcaster Frames v2 applications from the
// frames-v2-quickstart template.
package quickstart

// Version is the frames-quickstart release stamped into generated READMEs.
// Release builds override it with
// -ldflags "-X github.com/simonhull/frames-quickstart.Version=<version>".
var Version = "0.1.7"
