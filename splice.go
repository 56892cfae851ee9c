// Package splice scaffolds TypeScript backend projects and merges generated
// constructs into existing source files without disturbing user code.
package splice

// Version is the current splice release.
const Version = "0.1.0"
