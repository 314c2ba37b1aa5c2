package heap

// Behavior, Class, Metaclass, Mixin, Method, Message, Thread,
// Scheduler and ObjectStore are "regular objects with well-known slot
// offsets" (spec.md §3.4, §6): pointer enumeration treats them exactly
// like any other regular object, but callers get named accessors
// instead of raw indices.

// Behavior slots: superclass, methods, enclosing_object, mixin,
// class_id, format (spec.md §6).
const (
	behaviorSuperclassSlot      = 0
	behaviorMethodsSlot         = 1
	behaviorEnclosingObjectSlot = 2
	behaviorMixinSlot           = 3
	behaviorClassIDSlot         = 4
	behaviorFormatSlot          = 5
	BehaviorSlotCount           = 6
)

func (r Ref) Superclass() Ref       { return r.GetSlot(behaviorSuperclassSlot) }
func (r Ref) SetSuperclass(v Ref)   { r.SetSlot(behaviorSuperclassSlot, v) }
func (r Ref) Methods() Ref          { return r.GetSlot(behaviorMethodsSlot) }
func (r Ref) SetMethods(v Ref)      { r.SetSlot(behaviorMethodsSlot, v) }
func (r Ref) EnclosingObject() Ref  { return r.GetSlot(behaviorEnclosingObjectSlot) }
func (r Ref) SetEnclosingObject(v Ref) { r.SetSlot(behaviorEnclosingObjectSlot, v) }
func (r Ref) Mixin() Ref            { return r.GetSlot(behaviorMixinSlot) }
func (r Ref) SetMixin(v Ref)        { r.SetSlot(behaviorMixinSlot, v) }
func (r Ref) InstanceClassID() Ref  { return r.GetSlot(behaviorClassIDSlot) }
func (r Ref) SetInstanceClassID(v Ref) { r.SetSlot(behaviorClassIDSlot, v) }
func (r Ref) Format() Ref           { return r.GetSlot(behaviorFormatSlot) }
func (r Ref) SetFormat(v Ref)       { r.SetSlot(behaviorFormatSlot, v) }

// NewBehavior allocates a Behavior with the given class id. This core
// reserves no class id for Behavior instances; the caller supplies a
// regular (>= FirstRegularClassID) id.
func NewBehavior(h *Heap, cid ClassID) Ref {
	return NewRegularObject(h, cid, BehaviorSlotCount)
}

// Class adds name, subclasses on top of Behavior (spec.md §6): an
// 8-slot regular object (spec.md §9's "AssertCouldBeBehavior" check).
const (
	classNameSlot       = BehaviorSlotCount + 0
	classSubclassesSlot = BehaviorSlotCount + 1
	ClassSlotCount       = BehaviorSlotCount + 2
)

func (r Ref) Name() Ref          { return r.GetSlot(classNameSlot) }
func (r Ref) SetName(v Ref)      { r.SetSlot(classNameSlot, v) }
func (r Ref) Subclasses() Ref    { return r.GetSlot(classSubclassesSlot) }
func (r Ref) SetSubclasses(v Ref) { r.SetSlot(classSubclassesSlot, v) }

// NewClass allocates a Class.
func NewClass(h *Heap, cid ClassID) Ref {
	return NewRegularObject(h, cid, ClassSlotCount)
}

// Metaclass adds this_class on top of Behavior, padded with reserved
// slots to reach the original VM's fixed 10-slot Metaclass layout
// (spec.md §9 Open Questions: "the slot counts are hard-coded... do
// not derive semantics from the assertion" — we preserve the count,
// not the meaning, of the three reserved slots).
const (
	metaclassThisClassSlot = BehaviorSlotCount + 0
	metaclassReserved1Slot = BehaviorSlotCount + 1
	metaclassReserved2Slot = BehaviorSlotCount + 2
	metaclassReserved3Slot = BehaviorSlotCount + 3
	MetaclassSlotCount      = BehaviorSlotCount + 4
)

func (r Ref) ThisClass() Ref     { return r.GetSlot(metaclassThisClassSlot) }
func (r Ref) SetThisClass(v Ref) { r.SetSlot(metaclassThisClassSlot, v) }

// NewMetaclass allocates a Metaclass.
func NewMetaclass(h *Heap, cid ClassID) Ref {
	return NewRegularObject(h, cid, MetaclassSlotCount)
}

// AbstractMixin: name, methods, enclosing_mixin (spec.md §3.4).
const (
	mixinNameSlot           = 0
	mixinMethodsSlot        = 1
	mixinEnclosingMixinSlot = 2
	MixinSlotCount          = 3
)

func (r Ref) MixinName() Ref            { return r.GetSlot(mixinNameSlot) }
func (r Ref) SetMixinName(v Ref)        { r.SetSlot(mixinNameSlot, v) }
func (r Ref) MixinMethods() Ref         { return r.GetSlot(mixinMethodsSlot) }
func (r Ref) SetMixinMethods(v Ref)     { r.SetSlot(mixinMethodsSlot, v) }
func (r Ref) EnclosingMixin() Ref       { return r.GetSlot(mixinEnclosingMixinSlot) }
func (r Ref) SetEnclosingMixin(v Ref)   { r.SetSlot(mixinEnclosingMixinSlot, v) }

// NewMixin allocates an AbstractMixin.
func NewMixin(h *Heap, cid ClassID) Ref {
	return NewRegularObject(h, cid, MixinSlotCount)
}

// Method: header (packed small-int), literals, bytecode, mixin,
// selector, source (spec.md §6).
const (
	methodHeaderSlot   = 0
	methodLiteralsSlot = 1
	methodBytecodeSlot = 2
	methodMixinSlot    = 3
	methodSelectorSlot = 4
	methodSourceSlot   = 5
	MethodSlotCount    = 6
)

func (r Ref) MethodHeader() Ref     { return r.GetSlot(methodHeaderSlot) }
func (r Ref) SetMethodHeader(v Ref) { r.SetSlot(methodHeaderSlot, v) }
func (r Ref) Literals() Ref         { return r.GetSlot(methodLiteralsSlot) }
func (r Ref) SetLiterals(v Ref)     { r.SetSlot(methodLiteralsSlot, v) }
func (r Ref) Bytecode() Ref         { return r.GetSlot(methodBytecodeSlot) }
func (r Ref) SetBytecode(v Ref)     { r.SetSlot(methodBytecodeSlot, v) }
func (r Ref) MethodMixin() Ref      { return r.GetSlot(methodMixinSlot) }
func (r Ref) SetMethodMixin(v Ref)  { r.SetSlot(methodMixinSlot, v) }
func (r Ref) Selector() Ref         { return r.GetSlot(methodSelectorSlot) }
func (r Ref) SetSelector(v Ref)     { r.SetSlot(methodSelectorSlot, v) }
func (r Ref) Source() Ref           { return r.GetSlot(methodSourceSlot) }
func (r Ref) SetSource(v Ref)       { r.SetSlot(methodSourceSlot, v) }

// NewMethod allocates a Method.
func NewMethod(h *Heap, cid ClassID) Ref {
	return NewRegularObject(h, cid, MethodSlotCount)
}

// Packed method header bit layout (spec.md §6): argument count [0,8),
// temporary count [8,16), primitive number [16,26), access mode
// [28,30) (0 public, 1 protected, 2 private).
const (
	AccessPublic    = 0
	AccessProtected = 1
	AccessPrivate   = 2
)

// PackMethodHeader builds the packed small-integer method header.
func PackMethodHeader(argCount, tempCount, primitiveNumber, access int) Ref {
	w := uintptr(argCount&0xFF) |
		uintptr(tempCount&0xFF)<<8 |
		uintptr(primitiveNumber&0x3FF)<<16 |
		uintptr(access&0x3)<<28
	return NewSmallInt(int64(w))
}

// UnpackMethodHeader decodes a packed method header small integer.
func UnpackMethodHeader(header Ref) (argCount, tempCount, primitiveNumber, access int) {
	w := uintptr(header.SmallIntValue())
	argCount = int(w & 0xFF)
	tempCount = int((w >> 8) & 0xFF)
	primitiveNumber = int((w >> 16) & 0x3FF)
	access = int((w >> 28) & 0x3)
	return
}

// Message: selector and arguments, mirroring a #doesNotUnderstand:
// reification (spec.md §6's mention of a Message regular object).
const (
	messageSelectorSlot  = 0
	messageArgumentsSlot = 1
	MessageSlotCount     = 2
)

func (r Ref) MessageSelector() Ref   { return r.GetSlot(messageSelectorSlot) }
func (r Ref) MessageArguments() Ref  { return r.GetSlot(messageArgumentsSlot) }

// NewMessage allocates a Message.
func NewMessage(h *Heap, cid ClassID, selector, arguments Ref) Ref {
	r := NewRegularObject(h, cid, MessageSlotCount)
	r.SetSlot(messageSelectorSlot, selector)
	r.SetSlot(messageArgumentsSlot, arguments)
	return r
}

// Thread: a suspended execution's current activation plus scheduling
// link.
const (
	threadActivationSlot = 0
	threadNextSlot       = 1
	ThreadSlotCount      = 2
)

func (r Ref) ThreadActivation() Ref     { return r.GetSlot(threadActivationSlot) }
func (r Ref) SetThreadActivation(v Ref) { r.SetSlot(threadActivationSlot, v) }
func (r Ref) ThreadNext() Ref           { return r.GetSlot(threadNextSlot) }
func (r Ref) SetThreadNext(v Ref)       { r.SetSlot(threadNextSlot, v) }

// Scheduler: the run queue head/tail.
const (
	schedulerRunQueueHeadSlot = 0
	schedulerRunQueueTailSlot = 1
	SchedulerSlotCount        = 2
)

func (r Ref) RunQueueHead() Ref     { return r.GetSlot(schedulerRunQueueHeadSlot) }
func (r Ref) SetRunQueueHead(v Ref) { r.SetSlot(schedulerRunQueueHeadSlot, v) }
func (r Ref) RunQueueTail() Ref     { return r.GetSlot(schedulerRunQueueTailSlot) }
func (r Ref) SetRunQueueTail(v Ref) { r.SetSlot(schedulerRunQueueTailSlot, v) }

// ObjectStore: the system's well-known constants (spec.md §6).
const (
	objectStoreNilSlot             = 0
	objectStoreTrueSlot            = 1
	objectStoreFalseSlot           = 2
	objectStoreSchedulerSlot       = 3
	objectStoreBuiltinClassesSlot  = 4 // an Array of per-built-in-kind Behavior
	objectStoreSymbolTableSlot     = 5
	objectStoreQuickSelectorsSlot  = 6
	ObjectStoreSlotCount           = 7
)

// Well-known selector names installed in the ObjectStore symbol table.
const (
	SelectorDoesNotUnderstand       = "doesNotUnderstand:"
	SelectorCannotReturn            = "cannotReturn:"
	SelectorAboutToReturnThrough    = "aboutToReturn:through:"
	SelectorStart                   = "start"
)

func (r Ref) ObjectStoreNil() Ref        { return r.GetSlot(objectStoreNilSlot) }
func (r Ref) SetObjectStoreNil(v Ref)    { r.SetSlot(objectStoreNilSlot, v) }
func (r Ref) ObjectStoreTrue() Ref       { return r.GetSlot(objectStoreTrueSlot) }
func (r Ref) SetObjectStoreTrue(v Ref)   { r.SetSlot(objectStoreTrueSlot, v) }
func (r Ref) ObjectStoreFalse() Ref      { return r.GetSlot(objectStoreFalseSlot) }
func (r Ref) SetObjectStoreFalse(v Ref)  { r.SetSlot(objectStoreFalseSlot, v) }
func (r Ref) ObjectStoreScheduler() Ref  { return r.GetSlot(objectStoreSchedulerSlot) }
func (r Ref) SetObjectStoreScheduler(v Ref) { r.SetSlot(objectStoreSchedulerSlot, v) }
func (r Ref) BuiltinClasses() Ref        { return r.GetSlot(objectStoreBuiltinClassesSlot) }
func (r Ref) SetBuiltinClasses(v Ref)    { r.SetSlot(objectStoreBuiltinClassesSlot, v) }
func (r Ref) SymbolTable() Ref           { return r.GetSlot(objectStoreSymbolTableSlot) }
func (r Ref) SetSymbolTable(v Ref)       { r.SetSlot(objectStoreSymbolTableSlot, v) }
func (r Ref) QuickSelectors() Ref        { return r.GetSlot(objectStoreQuickSelectorsSlot) }
func (r Ref) SetQuickSelectors(v Ref)    { r.SetSlot(objectStoreQuickSelectorsSlot, v) }

// NewObjectStore allocates an ObjectStore.
func NewObjectStore(h *Heap, cid ClassID) Ref {
	return NewRegularObject(h, cid, ObjectStoreSlotCount)
}
