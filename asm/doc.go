// Package asm translates textual UVM programs into binary form.
//
// A program is one instruction per row, comma-separated:
// MNEMONIC,arg1,arg2,... with whitespace trimmed around each field.
// Blank rows and rows whose first field begins with '#' are skipped.
// Rows pass through an intermediate representation of validated
// records before being encoded as little-endian instruction words.
//
// The translator also supports '.equ,NAME,VALUE' constant rows and
// translation-time '$(...)' expressions evaluated by Starlark with
// the defined constants in scope.
package asm
