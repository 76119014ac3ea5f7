package runtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"charette-lab/domain/event"
)

type Sink struct{}

func (s Sink) Consume(e event.DomainEvent) error {
	return nil
}

func TestGroupKey(t *testing.T) {
	req := require.New(t)

	req.Equal("charette-1", GroupKey("charette-1", ""))
	req.Equal("charette-1/room-2", GroupKey("charette-1", "room-2"))
}

func TestRegistry_Subscribe_One_Group_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	group := GroupKey("charette-1", "")
	sink := Sink{}

	// Given no connection exists
	req.Nil(registry.SinksFor(group))

	// When a connection subscribes
	registry.Subscribe(connID, group, sink)

	// Then its sink is reachable through the group
	sinks := registry.SinksFor(group)
	req.Len(sinks, 1)
	req.Contains(sinks, sink)
}

func TestRegistry_JoinGroup_SecondGroup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	sink := Sink{}

	// Given a session-wide subscriber
	registry.Subscribe(connID, GroupKey("charette-1", ""), sink)

	// When it joins a breakout room group
	registry.JoinGroup(connID, GroupKey("charette-1", "room-1"))

	// Then the same sink answers for both groups
	req.Len(registry.SinksFor(GroupKey("charette-1", "")), 1)
	req.Len(registry.SinksFor(GroupKey("charette-1", "room-1")), 1)
}

func TestRegistry_JoinGroup_UnknownConnection_Ignored(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// When an unsubscribed connection tries to join a group
	registry.JoinGroup(uuid.NewString(), GroupKey("charette-1", "room-1"))

	// Then no group is created
	req.Nil(registry.SinksFor(GroupKey("charette-1", "room-1")))
}

func TestRegistry_LeaveGroup_KeepsSessionGroup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	sink := Sink{}

	registry.Subscribe(connID, GroupKey("charette-1", ""), sink)
	registry.JoinGroup(connID, GroupKey("charette-1", "room-1"))

	// When leaving the room group
	registry.LeaveGroup(connID, GroupKey("charette-1", "room-1"))

	// Then the session-wide membership survives
	req.Nil(registry.SinksFor(GroupKey("charette-1", "room-1")))
	req.Len(registry.SinksFor(GroupKey("charette-1", "")), 1)
}

func TestRegistry_Unsubscribe_RemovesEverywhere(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID1 := uuid.NewString()
	connID2 := uuid.NewString()
	sink1 := Sink{}
	sink2 := Sink{}

	registry.Subscribe(connID1, GroupKey("charette-1", ""), sink1)
	registry.Subscribe(connID2, GroupKey("charette-1", ""), sink2)
	registry.JoinGroup(connID1, GroupKey("charette-1", "room-1"))

	// When the first connection drops
	registry.Unsubscribe(connID1)

	// Then it is gone from every group, the other one stays
	req.Nil(registry.SinksFor(GroupKey("charette-1", "room-1")))
	sinks := registry.SinksFor(GroupKey("charette-1", ""))
	req.Len(sinks, 1)
	req.Contains(sinks, sink2)
}
