package ecs

// System represents a behavior that operates on entities with specific components.
// Systems can declare Query and Singleton fields, which the Scheduler binds to its
// storage on Register, as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// binder is implemented by system fields that need a storage reference.
type binder interface {
	Init(storage *Storage)
}

// executor is implemented by system fields that cache results per execution.
type executor interface {
	Execute()
}
