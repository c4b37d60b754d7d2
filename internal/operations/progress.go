package operations

// Progress is the callback the pipeline invokes as it advances through a
// stage: done out of total units (rows for loading and emitting, column check
// groups for validating). The validation core itself never prints; callers
// decide what, if anything, to display.
type Progress func(stage Stage, done, total int)

// NopProgress discards progress updates.
func NopProgress(Stage, int, int) {}
