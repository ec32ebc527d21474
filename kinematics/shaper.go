package kinematics

// Input shaper kinematics.
//
// TODO: input shaping (ZV, MZV, EI, 2-hump EI, 3-hump EI), smooth time
// calculation, and move modification for resonance suppression. Left
// unimplemented upstream too (see original_source kinematics/shaper.rs);
// not built here either.
