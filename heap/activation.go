package heap

import "github.com/chazu/soupvm/internal/word"

// Activation layout: sender, bytecode-index, method, closure,
// receiver, stack depth, followed by a fixed-capacity temp/stack array
// (spec.md §3.4).
const (
	activationSenderSlot        = 0
	activationBytecodeIndexSlot = 1
	activationMethodSlot        = 2
	activationClosureSlot       = 3
	activationReceiverSlot      = 4
	activationStackDepthSlot    = 5
	activationFixedSlots        = 6
	activationMaxTemps          = 35
	activationTotalSlots        = activationFixedSlots + activationMaxTemps
)

// NewActivation allocates a fresh Activation frame.
func NewActivation(h *Heap) Ref {
	r := h.Allocate(activationTotalSlots*word.WordSize, ClassActivation)
	base := r.payloadAddr()
	writeRef(slotAddr(base, activationSenderSlot), Nil)
	writeRef(slotAddr(base, activationBytecodeIndexSlot), NewSmallInt(0))
	writeRef(slotAddr(base, activationMethodSlot), Nil)
	writeRef(slotAddr(base, activationClosureSlot), Nil)
	writeRef(slotAddr(base, activationReceiverSlot), Nil)
	writeRef(slotAddr(base, activationStackDepthSlot), NewSmallInt(0))
	for i := 0; i < activationMaxTemps; i++ {
		writeRef(slotAddr(base, activationFixedSlots+i), Nil)
	}
	return r
}

func (r Ref) Sender() Ref   { return readRef(slotAddr(r.payloadAddr(), activationSenderSlot)) }
func (r Ref) SetSender(v Ref) { writeRef(slotAddr(r.payloadAddr(), activationSenderSlot), v) }

func (r Ref) BytecodeIndex() int64 {
	return readRef(slotAddr(r.payloadAddr(), activationBytecodeIndexSlot)).SmallIntValue()
}
func (r Ref) SetBytecodeIndex(v int64) {
	writeRef(slotAddr(r.payloadAddr(), activationBytecodeIndexSlot), NewSmallInt(v))
}

func (r Ref) Method() Ref   { return readRef(slotAddr(r.payloadAddr(), activationMethodSlot)) }
func (r Ref) SetMethod(v Ref) { writeRef(slotAddr(r.payloadAddr(), activationMethodSlot), v) }

func (r Ref) Closure() Ref   { return readRef(slotAddr(r.payloadAddr(), activationClosureSlot)) }
func (r Ref) SetClosure(v Ref) { writeRef(slotAddr(r.payloadAddr(), activationClosureSlot), v) }

func (r Ref) Receiver() Ref   { return readRef(slotAddr(r.payloadAddr(), activationReceiverSlot)) }
func (r Ref) SetReceiver(v Ref) { writeRef(slotAddr(r.payloadAddr(), activationReceiverSlot), v) }

func (r Ref) StackDepth() int {
	return int(readRef(slotAddr(r.payloadAddr(), activationStackDepthSlot)).SmallIntValue())
}
func (r Ref) SetStackDepth(v int) {
	writeRef(slotAddr(r.payloadAddr(), activationStackDepthSlot), NewSmallInt(int64(v)))
}

// Temp returns the i'th temp/stack slot (0-based).
func (r Ref) Temp(i int) Ref {
	return readRef(slotAddr(r.payloadAddr(), activationFixedSlots+i))
}

// SetTemp sets the i'th temp/stack slot (0-based).
func (r Ref) SetTemp(i int, v Ref) {
	writeRef(slotAddr(r.payloadAddr(), activationFixedSlots+i), v)
}
