// Package workspace models the members of a Cargo workspace and the target
// scopes commands operate on.
//
// Members are discovered either through `cargo metadata` or by reading the
// workspace manifest directly. A member whose manifest sits under the examples
// directory is an example; every other member is a crate.
package workspace
