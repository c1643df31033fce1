package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

type failingPublisher struct {
	calls int
	last  *Event
}

func (f *failingPublisher) Publish(_ context.Context, e *Event) error {
	f.calls++
	f.last = e
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error { return nil }

func TestEventBodyDecodes(t *testing.T) {
	in := &Event{
		Type:     RosterUpdated,
		CourseID: primitive.NewObjectID(),
		Role:     entity.RoleTA,
		Users:    []primitive.ObjectID{primitive.NewObjectID()},
		At:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.CourseID, out.CourseID)
	assert.Equal(t, in.Users, out.Users)
	assert.True(t, in.At.Equal(out.At))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not gob"))
	assert.Error(t, err)
}

func TestEmitSwallowsErrorsAndStamps(t *testing.T) {
	p := &failingPublisher{}
	Emit(context.Background(), p, &Event{Type: CourseDeleted})

	assert.Equal(t, 1, p.calls)
	assert.False(t, p.last.At.IsZero())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), &Event{Type: CourseDeleted}))
	assert.NoError(t, p.Close())
}

func TestDialFailsWithoutRetryBudget(t *testing.T) {
	_, err := Dial("http://not-a-broker", 1)
	assert.Error(t, err)
}
