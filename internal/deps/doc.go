// Package deps reports availability of the external binaries cleave
// shells out to. Planning and execution consult these checks up front so
// a missing tool fails before any media work starts.
package deps
