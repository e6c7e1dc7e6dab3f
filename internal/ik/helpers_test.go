package ik

import "github.com/roach88/hexleg/internal/geom"

const (
	testFemur = 7.6125
	testTibia = 10.4
)

// rightFront is the Phoenix R1 leg with its field calibration ranges.
func rightFront() Leg {
	return Leg{
		Name: "r1",
		Geometry: LegGeometry{
			Origin:      geom.V(4.25, 2.875, 8.15),
			FemurLength: testFemur,
			TibiaLength: testTibia,
		},
		Ranges: JointRanges{
			Coxa:  JointRange{Min: 0, Max: 90},
			Femur: JointRange{Min: -80, Max: 78},
			Tibia: JointRange{Min: -160, Max: -10},
		},
	}
}

// leftFront is the Phoenix L1 leg. Its ranges sit on the far side of each
// joint, so it relies on the ±180° candidates.
func leftFront() Leg {
	return Leg{
		Name: "l1",
		Geometry: LegGeometry{
			Origin:      geom.V(-4.25, 2.875, 8.15),
			FemurLength: testFemur,
			TibiaLength: testTibia,
		},
		Ranges: JointRanges{
			Coxa:  JointRange{Min: 90, Max: 180},
			Femur: JointRange{Min: 110, Max: 260},
			Tibia: JointRange{Min: 180, Max: 340},
		},
	}
}

func openRanges() JointRanges {
	all := JointRange{Min: -360, Max: 360}
	return JointRanges{Coxa: all, Femur: all, Tibia: all}
}

func testGeometry() LegGeometry {
	return LegGeometry{FemurLength: testFemur, TibiaLength: testTibia}
}
