// Package bridge exposes the solver over MQTT.
//
// A pose request published on <prefix>/request is solved for every leg it
// names and the reply is published on <prefix>/angles:
//
//	request: {"id": "42", "orientation": {"roll": 0, "pitch": 0.1, "yaw": 0},
//	          "offset": [0, 1, 0], "targets": {"r1": [11.25, -4, 12.15]}}
//	reply:   {"id": "42", "legs": {"r1": {"coxa": 30, "femur": 24, "tibia": -110}}}
//
// A leg that cannot be solved carries {"unreachable": "<code>"} and no
// angles, so the servo controller keeps its last pose.
package bridge
