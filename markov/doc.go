// Word-transition ("Markov chain") text generation with hard length bounds.
//
// This package is the core engine behind the bot: Build consumes a corpus of
// normalized strings and produces an immutable transition model, and Generate
// performs randomized, cycle-avoiding walks over that model until a walk
// yields text within the configured character bounds or the attempt budget
// runs out. There is no linguistic or semantic guarantee on the output, only
// structural ones: length bounds, no repeated state within one walk, and
// reproducibility under a seeded random source.
//
// See `cleantext` for turning raw post text into training material, and
// `bot` for the orchestration that feeds and publishes this engine.
package markov
