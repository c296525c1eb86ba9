package game

import (
	"sync"

	"github.com/google/uuid"
)

// destinationBuffer is how many undelivered snapshots a connection may lag
// behind before the actor treats it as dead and prunes it.
const destinationBuffer = 16

// Destination is one outbound channel in a game's broadcast fan-out. The
// owning bridge ranges over Frames and writes each snapshot to its socket;
// the actor is the only sender. A closed Frames channel is the close signal:
// the game was discarded and the bridge should close its connection.
type Destination struct {
	id     uuid.UUID
	frames chan []byte
	done   chan struct{}

	closeOnce sync.Once
	doneOnce  sync.Once
}

func NewDestination() *Destination {
	return &Destination{
		id:     uuid.New(),
		frames: make(chan []byte, destinationBuffer),
		done:   make(chan struct{}),
	}
}

func (d *Destination) ID() uuid.UUID { return d.id }

// Frames returns the snapshot stream. It is closed by the actor when the
// game is discarded or when the destination is pruned.
func (d *Destination) Frames() <-chan []byte { return d.frames }

// Done tells the actor that the owner stopped reading, typically because the
// socket write failed. The actor prunes the destination on its next broadcast.
func (d *Destination) Done() {
	d.doneOnce.Do(func() { close(d.done) })
}

// closeFrames is called only from the actor loop.
func (d *Destination) closeFrames() {
	d.closeOnce.Do(func() { close(d.frames) })
}

// deliver attempts a non-blocking send. It reports false when the owner is
// gone or the buffer is full, in which case the caller must prune.
func (d *Destination) deliver(frame []byte) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.frames <- frame:
		return true
	default:
		return false
	}
}
