package main

import (
	. "github.com/mmcloughlin/avo/build"
	"github.com/mmcloughlin/avo/operand"
)

//go:generate go run . -out ../mix_amd64.s -stubs ../mix_amd64.go -pkg primemap

func main() {
	TEXT("mix", NOSPLIT, "func(h uint32) uint32")
	Doc("mix spreads the bits of a folded hash before it is reduced to a slot index.")
	Comment("Get our input parameter")
	h := Load(Param("h"), GP32())
	t, u := GP32(), GP32()

	Comment("h ^= (h >> 20) ^ (h >> 12)")
	MOVL(h, t)
	SHRL(operand.Imm(20), t)
	MOVL(h, u)
	SHRL(operand.Imm(12), u)
	XORL(u, t)
	XORL(t, h)

	Comment("h ^= (h >> 7) ^ (h >> 4)")
	MOVL(h, t)
	SHRL(operand.Imm(7), t)
	MOVL(h, u)
	SHRL(operand.Imm(4), u)
	XORL(u, t)
	XORL(t, h)

	Store(h, ReturnIndex(0))
	RET()
	Generate()
}
