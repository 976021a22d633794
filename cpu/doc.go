// Package cpu implements the single-cycle RV32IM processor and assembler.
//
// Instruction words are decoded into their fields and a control-signal
// bundle, then stepped through a fetch, decode, execute, memory access and
// write-back datapath. Each cycle is computed as a Cycle record from the
// current register file, memory and program counter, and then committed.
//
// The assembler is a two pass assembler for the RV32I base instructions
// plus mul, div and rem, supporting labels, equates, data directives,
// pseudo-instructions and compile-time expression evaluation.
package cpu
