// Package planner orchestrates a planning run: probe the source duration,
// enumerate target timestamps, resolve each into a cut point through the
// segmentation resolver, checkpoint after every point, and persist the
// finished plan. A lock file keeps concurrent planners out of the same
// output directory.
package planner
