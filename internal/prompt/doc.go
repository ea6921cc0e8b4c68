// Package prompt asks users to confirm actions before tools rewrite sources.
//
// A Session threads a single Answer through nested steps so that a user who
// confirmed an aggregate command is not asked again for every step.
package prompt
