package process

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PCB", func() {
	It("should describe the initial process", func() {
		p := NewInit()

		Expect(p.PID).To(Equal(InitPID))
		Expect(p.ParentPID).To(Equal(NoParent))
		Expect(p.Program).To(Equal("init"))
		Expect(p.Size).To(Equal(1))
		Expect(p.HasPartition()).To(BeFalse())
	})

	It("should fork a child that shares the image and the partition", func() {
		parent := NewInit()
		parent.Partition = 6

		child := parent.Fork(1)

		Expect(child).NotTo(BeIdenticalTo(parent))
		Expect(*child).To(Equal(PCB{
			PID: 1, ParentPID: 0, Program: "init", Size: 1, Partition: 6,
		}))
		Expect(parent.PID).To(Equal(0))
	})

	It("should replace the image but keep the identity", func() {
		p := NewInit()
		p.Replace("program1", 10)

		Expect(p.PID).To(Equal(InitPID))
		Expect(p.Program).To(Equal("program1"))
		Expect(p.Size).To(Equal(10))
	})
})

var _ = Describe("WaitQueue", func() {
	It("should not alias the queue it was pushed on", func() {
		var q WaitQueue
		first := q.Push(&PCB{PID: 0})
		a := first.Push(&PCB{PID: 1})
		b := first.Push(&PCB{PID: 2})

		Expect(first.PIDs()).To(Equal([]int{0}))
		Expect(a.PIDs()).To(Equal([]int{0, 1}))
		Expect(b.PIDs()).To(Equal([]int{0, 2}))
	})

	It("should keep a copy of the blocked parent", func() {
		p := &PCB{PID: 3, Program: "init"}
		q := WaitQueue(nil).Push(p)
		p.Program = "changed"

		Expect(q[0].Program).To(Equal("init"))
	})
})

var _ = Describe("PIDGenerator", func() {
	It("should start at 1 and increase", func() {
		g := NewPIDGenerator()
		Expect(g.Last()).To(Equal(InitPID))

		Expect(g.Next()).To(Equal(1))
		Expect(g.Next()).To(Equal(2))
		Expect(g.Last()).To(Equal(2))
	})

	It("should keep generators independent", func() {
		g1 := NewPIDGenerator()
		g2 := NewPIDGenerator()

		g1.Next()
		Expect(g2.Next()).To(Equal(1))
	})
})

var _ = Describe("Table", func() {
	It("should list the running process then the waiting ones", func() {
		running := &PCB{PID: 1, ParentPID: 0, Program: "init", Size: 1, Partition: 6}
		queue := WaitQueue(nil).Push(&PCB{PID: 0, Program: "init", Size: 1, Partition: 6})

		table := Table(running, queue)
		lines := strings.Split(strings.TrimSuffix(table, "\n"), "\n")

		Expect(lines).To(HaveLen(6))
		Expect(lines[0]).To(HavePrefix("+---"))
		Expect(lines[1]).To(ContainSubstring("partition number"))
		Expect(lines[3]).To(Equal(
			"|    1 |         init |                6 |    1 |  running |"))
		Expect(lines[4]).To(Equal(
			"|    0 |         init |                6 |    1 |  waiting |"))
		for _, l := range lines {
			Expect(l).To(HaveLen(len(lines[1])))
		}
	})
})
