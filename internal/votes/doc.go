// Package votes converts raw roll-call vote records into the dense,
// validated binding consumed by package model.
//
// The pipeline is: recode multi-level response codes into yea/nay/
// missing, drop missing responses, drop unanimous roll calls (they
// carry no identifying information), assign dense 1-based indices to
// the retained legislators and roll calls, detect party-line votes to
// seed discrimination signs and starting values, and resolve named
// anchor legislators into the 0-based index partition used by the
// fixed-reference variant.
//
// Legislator and roll-call indices follow first appearance in the
// input, so a binding is deterministic for a given record sequence.
// Anchor names are matched after Unicode NFC normalization and
// whitespace trimming; a named anchor that is absent from the retained
// data fails the build, there is no silent fallback.
package votes
