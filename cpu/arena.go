package cpu

// Address space layout.
const (
	ARENA_TEXT  = uint32(0x0000_0000) // Start of the instruction (text) segment.
	ARENA_DATA  = uint32(0x1000_0000) // Start of the data segment.
	ARENA_STACK = uint32(0x7FFF_FFDC) // Initial stack pointer (x2).
)

// SENTINEL is the word terminating the instruction listing.
const SENTINEL = uint32(0xdeadbeef)

// CYCLE_LIMIT is the default maximum number of executed cycles.
const CYCLE_LIMIT = 5000

// Register aliases.
const (
	REG_ZERO = uint32(0) // Hardwired zero.
	REG_RA   = uint32(1) // Return address.
	REG_SP   = uint32(2) // Stack pointer.
)

// abiName maps the ABI register names to their index.
var abiName = map[string]uint32{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25,
	"s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}
