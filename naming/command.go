package naming

import (
	"context"

	"github.com/distfs/naming/pathname"
)

// Command is the naming server's view of a storage server's command
// endpoint (spec.md section 6, "Naming -> Storage (Command)"). The naming
// server calls it to create files, delete stale replicas during the
// invalidation pass, and seed new replicas during replication.
type Command interface {
	Create(ctx context.Context, p pathname.Path) (bool, error)
	Delete(ctx context.Context, p pathname.Path) (bool, error)
	Copy(ctx context.Context, p pathname.Path, source StorageStub) (bool, error)
}

// CommandDialer resolves a CommandStub to a live Command client. The
// naming package takes this as a dependency (mirroring the teacher's
// ServerConfig.Bucket gcs.Bucket injection) so it never has to know how
// the remote-call transport actually dials a storage server; package rpc
// supplies the production implementation, tests supply fakes.
type CommandDialer func(CommandStub) Command
