// Package vm implements the fetch-decode-execute engine for the UVM
// virtual machine.
//
// The machine holds a fixed register bank and a single word-addressable
// memory shared between code and data. A loaded program occupies the
// low addresses of that memory; its word count is captured at load
// time and is the sole termination boundary. The counter only ever
// advances, so there are no branches and every program is a straight
// line executed exactly once per word.
package vm
