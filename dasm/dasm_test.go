package dasm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mico32/dasm"
)

var _ = Describe("Disasm", func() {
	// 每种语法模板至少一条，pc 用于计算分支和跳转目标
	DescribeTable("语法模板",
		func(word, pc uint32, text string) {
			Expect(dasm.Disasm(word, pc)).To(Equal(text))
		},
		Entry("加载", uint32(0x28430004), uint32(0), "lw r3,$0004(r2)"),
		Entry("存储负偏移", uint32(0x5841FFFC), uint32(0), "sw -$0004(r2),r1"),
		Entry("逻辑立即数", uint32(0x3841FFFF), uint32(0), "ori r1,r2,#$FFFF"),
		Entry("算术立即数", uint32(0x3441000A), uint32(0), "addi r1,r2,#$000A"),
		Entry("算术负立即数", uint32(0x3441FFFF), uint32(0), "addi r1,r2,#-$0001"),
		Entry("条件分支", uint32(0x44640040), uint32(0x0F00), "be r3,r4,$00001000"),
		Entry("移位立即数", uint32(0x3C41001F), uint32(0), "sli r1,r2,#$1F"),
		Entry("无条件跳转", uint32(0xE0000400), uint32(0x1000), "bi $00002000"),
		Entry("向后跳转", uint32(0xE3FFFC00), uint32(0x2000), "bi $00001000"),
		Entry("立即数调用", uint32(0xF8000010), uint32(0), "calli $00000040"),
		Entry("自定义指令", uint32(0xCC221FFF), uint32(0), "user #$7FF,r3,r1,r2"),
		Entry("寄存器运算", uint32(0xB4221800), uint32(0), "add r3,r1,r2"),
		Entry("符号扩展", uint32(0xB0201800), uint32(0), "sextb r3,r1"),
		Entry("写 CSR", uint32(0xD0050000), uint32(0), "wcsr IE,r5"),
		Entry("读 CSR", uint32(0x90A02800), uint32(0), "rcsr r5,CC"),
		Entry("间接跳转", uint32(0xC0800000), uint32(0), "b r4"),
		Entry("间接调用", uint32(0xD8800000), uint32(0), "call r4"),
		Entry("ret", uint32(0xC3A00000), uint32(0), "ret"),
		Entry("eret", uint32(0xC3C00000), uint32(0), "eret"),
		Entry("bret", uint32(0xC3E00000), uint32(0), "bret"),
		Entry("call ra 不是伪指令", uint32(0xDBA00000), uint32(0), "call ra"),
	)

	DescribeTable("raise",
		func(word uint32, text string) {
			Expect(dasm.Disasm(word, 0)).To(Equal(text))
		},
		Entry("reset", uint32(0xAC000000), "reset"),
		Entry("break", uint32(0xAC000001), "break"),
		Entry("irq", uint32(0xAC000006), "irq"),
		Entry("scall", uint32(0xAC000007), "scall"),
		Entry("通用形式", uint32(0xAC000002), "raise #2"),
	)

	It("未分配的操作码", func() {
		Expect(dasm.Disasm(0xA8000000, 0)).To(Equal("opcode #42 ??"))
	})

	Describe("十六进制格式", func() {
		It("按宽度补零", func() {
			Expect(dasm.UHex(0x1F, 2)).To(Equal("$1F"))
			Expect(dasm.UHex(0xA, 4)).To(Equal("$000A"))
			Expect(dasm.UHex(0x2000, 8)).To(Equal("$00002000"))
		})
		It("负数带符号", func() {
			Expect(dasm.SHex(0x8000, 4)).To(Equal("-$8000"))
			Expect(dasm.SHex(0x7FFF, 4)).To(Equal("$7FFF"))
		})
	})
})
