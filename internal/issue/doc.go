// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages an operator can act on: an
// ActionableError says what failed, on which resource and what to try next,
// and an Issue is a Markdown guide for a known class of failure, rendered for
// the terminal with glamour.
package issue
