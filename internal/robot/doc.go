// Package robot compiles CUE robot descriptions into solver legs.
//
// A description names the robot, its default link lengths, and one entry per
// leg with the hip origin and the coxa, femur, and tibia ranges in degrees:
//
//	robot: {
//		name: "phoenix"
//		links: {femur: 7.6125, tibia: 10.4}
//		leg: r1: {
//			origin: [4.25, 2.875, 8.15]
//			coxa:   [0, 90]
//			femur:  [-80, 78]
//			tibia:  [-160, -10]
//		}
//	}
//
// Legs keep their declaration order. A leg may override links and may set
// mirrored: true. Compile reports structural problems as *CompileError;
// Validate reports semantic problems as coded ValidationErrors (E101-E107).
package robot
