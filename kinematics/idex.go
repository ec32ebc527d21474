package kinematics

// IDEX (Independent Dual Extruder) kinematics.
//
// TODO: wraps another kinematics topology and manages dual carriage modes
// (full control, primary, copy, mirror) with an offset and axis mapping.
// Left unimplemented upstream too (see original_source kinematics/idex.rs);
// not built here either.
