// Package harness runs pose scenarios against a robot and compares the
// resulting solve traces with golden files.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: tilt_left
//	description: "Rolling the body keeps every foot planted"
//	robot: ../robots/phoenix      # optional, relative to this file
//	run_token: tilt-left-001      # optional, fixed for golden output
//	stance:                       # default foot targets, body space
//	  r1: [11.25, -4, 12.15]
//	  l1: [-11.25, -4, 12.15]
//	steps:
//	  - name: level
//	  - name: roll
//	    orientation: {roll: 0.2}
//	    offset: [0, 1, 0]         # body shift; feet move by -offset
//	    targets:
//	      r1: [12, -4, 12.15]     # overrides the stance for this step
//	    expect:
//	      r1: {angles: [29.7, 24.2, -109.9], tolerance: 0.1}
//	      l1: {unreachable: range, joint: tibia}
//	assertions:
//	  - type: all_reachable
//	    leg: r1
//	  - type: outcome_count
//	    outcome: geometric
//	    count: 0
//	  - type: deterministic
//
// Without a robot entry the built-in Phoenix description is used.
//
// # Assertion Types
//
//   - outcome_count: exactly count solves ended with outcome (ok, geometric,
//     or range), optionally for one leg
//   - all_reachable: every solve succeeded, optionally for one leg
//   - within_range: every solved angle lies inside its joint range
//   - deterministic: replaying the recorded run from the solve log
//     reproduces every outcome bit for bit
//
// Each scenario runs against a fresh in-memory solve log with a
// deterministic clock and a fixed run token.
package harness
