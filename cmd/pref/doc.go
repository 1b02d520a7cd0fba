// Package pref implements the "dprefs pref" command group: reading and writing
// the entries of one suite from the command line.
//
// Values are typed by their native kind. get prints the kind along with the
// value; set takes the kind via --kind. Writes go through a prop.Prop with the
// pass-through converter, so the accessor metrics (see --metrics) count them.
package pref
