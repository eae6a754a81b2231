package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	AddDomainEvent(event DomainEvent)
	FlushEvents() []DomainEvent
}

// BaseAggregateRoot owns the pending domain-event buffer of an aggregate.
// Events accumulate through AddDomainEvent and leave the aggregate only
// through FlushEvents, which the persistence layer calls exactly once per
// successful save.
type BaseAggregateRoot struct {
	domainEvents []DomainEvent
}

// AddDomainEvent appends a domain event to the pending buffer
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// FlushEvents returns the pending events and resets the buffer to empty.
// Ownership of the returned slice passes to the caller.
func (a *BaseAggregateRoot) FlushEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

// PendingEventCount returns the number of events waiting to be flushed
func (a *BaseAggregateRoot) PendingEventCount() int {
	return len(a.domainEvents)
}
