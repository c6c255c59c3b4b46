package trace

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	DescribeTable("valid lines",
		func(line string, want Event) {
			evt, err := Parse(line)

			Expect(err).NotTo(HaveOccurred())
			Expect(evt).To(Equal(want))
		},
		Entry("cpu burst", "CPU, 50", Event{Activity: CPU, Operand: 50}),
		Entry("no spaces", "SYSCALL,4", Event{Activity: Syscall, Operand: 4}),
		Entry("end io", "END_IO, 7", Event{Activity: EndIO, Operand: 7}),
		Entry("fork", "FORK, 10", Event{Activity: Fork, Operand: 10}),
		Entry("marker with operand", "IF_CHILD, 0", Event{Activity: IfChild}),
		Entry("marker without operand", "ENDIF", Event{Activity: EndIf}),
		Entry("marker with empty operand", "IF_PARENT,", Event{Activity: IfParent}),
		Entry("exec, name after tag", "EXEC program1, 50",
			Event{Activity: Exec, Operand: 50, Program: "program1"}),
		Entry("exec, name as operand", "EXEC, program2",
			Event{Activity: Exec, Program: "program2"}),
		Entry("largest operand", "FORK, 2147483647",
			Event{Activity: Fork, Operand: MaxOperand}),
		Entry("surrounding whitespace", "  CPU ,  3  ", Event{Activity: CPU, Operand: 3}),
	)

	DescribeTable("malformed lines",
		func(line string) {
			_, err := Parse(line)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrParse)).To(BeTrue())

			var parseErr *ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
			Expect(parseErr.Line).To(Equal(line))
		},
		Entry("unknown tag", "JUMP, 3"),
		Entry("lower case tag", "cpu, 3"),
		Entry("empty", ""),
		Entry("only a comma", ", 5"),
		Entry("non-numeric operand", "CPU, abc"),
		Entry("negative operand", "CPU, -4"),
		Entry("operand beyond the bound", "CPU, 2147483648"),
		Entry("operand out of int range", "CPU, 9223372036854775808"),
		Entry("exec operand out of int range", "EXEC, 99999999999999999999"),
		Entry("exec without program", "EXEC, 50"),
		Entry("exec with bare tag", "EXEC"),
		Entry("program on non-exec", "FORK child, 3"),
		Entry("too many fields", "EXEC a b, 3"),
	)

	It("should render events back to trace format", func() {
		Expect(Event{Activity: Exec, Program: "p", Operand: 5}.String()).
			To(Equal("EXEC p, 5"))
		Expect(Event{Activity: EndIO, Operand: 2}.String()).
			To(Equal("END_IO, 2"))
	})

	It("should name every activity by its tag", func() {
		for _, a := range Activities() {
			back, ok := ActivityFromTag(a.String())
			Expect(ok).To(BeTrue())
			Expect(back).To(Equal(a))
		}
		Expect(Activity(99).String()).To(Equal("Activity(99)"))
	})

	It("should report markers", func() {
		Expect(IfChild.IsMarker()).To(BeTrue())
		Expect(EndIf.IsMarker()).To(BeTrue())
		Expect(Fork.IsMarker()).To(BeFalse())
	})

	It("should tell the activity of a line", func() {
		a, ok := ActivityOf("IF_PARENT, 0")
		Expect(ok).To(BeTrue())
		Expect(a).To(Equal(IfParent))

		_, ok = ActivityOf("garbage")
		Expect(ok).To(BeFalse())
	})
})
