// Package movement implements deterministic player movement. Simulator.Step advances a State by one
// Command; given the same world, parameters, state and command it always produces the same state, which
// is what client prediction and recording verification rely on.
//
// Two behaviours are deliberate. Dead players keep the view angles they died with: commands sent while
// dead do not turn the view. And Step is not the only way a State changes: Spawn, Respawn, Teleport and
// Knockback change it directly on the server. Anything replaying commands, such as a recording, has to
// capture those changes separately.
package movement
