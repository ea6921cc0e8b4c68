// Package cargo installs the crates that provide external checking tools and
// inspects the active Rust toolchain.
package cargo
